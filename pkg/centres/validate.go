package centres

import (
	"fmt"
	"regexp"
)

// Validate checks the configuration for errors.
func (c *CentresConfig) Validate() error {
	if len(c.Centres) == 0 {
		return fmt.Errorf("no centres specified in configuration")
	}

	names := make(map[string]struct{})
	for i := range c.Centres {
		if err := c.Centres[i].Validate(); err != nil {
			return fmt.Errorf("centre %d: %w", i+1, err)
		}
		name := c.Centres[i].Name
		if _, ok := names[name]; ok {
			return fmt.Errorf("centre %d: duplicate name '%s'", i+1, name)
		}
		names[name] = struct{}{}
	}

	return nil
}

// Validate checks a single centre configuration.
func (c *Centre) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}

	if c.Prefix == "" {
		return fmt.Errorf("prefix is required")
	}

	if c.BarcodeField == "" {
		return fmt.Errorf("barcode_field is required")
	}

	if c.FileRegex == "" {
		return fmt.Errorf("file_regex is required")
	}

	if _, err := regexp.Compile(c.FileRegex); err != nil {
		return fmt.Errorf("invalid file_regex '%s': %w", c.FileRegex, err)
	}

	if c.BarcodeRegex != "" {
		re, err := regexp.Compile(c.BarcodeRegex)
		if err != nil {
			return fmt.Errorf(
				"invalid barcode_regex '%s': %w", c.BarcodeRegex, err,
			)
		}
		if re.NumSubexp() < 2 {
			return fmt.Errorf(
				"barcode_regex '%s' must have plate and coordinate groups",
				c.BarcodeRegex,
			)
		}
	}

	return nil
}
