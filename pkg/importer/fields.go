package importer

// Collections used by sampledb.
const (
	CollectionCentres = "centres"
	CollectionImports = "imports"
	CollectionSamples = "samples"
)

// Fields of sample records.
const (
	FieldPlateBarcode = "plate_barcode"
	FieldCoordinate   = "coordinate"
	FieldSource       = "source"
	FieldDateTested   = "Date Tested"
	FieldLabID        = "Lab ID"
	FieldResult       = "Result"
	FieldRNAID        = "RNA ID"
	FieldRootSampleID = "Root Sample ID"
)

// Fields of import records.
const (
	FieldDate            = "date"
	FieldCentreName      = "centre_name"
	FieldCSVFileUsed     = "csv_file_used"
	FieldNumberOfRecords = "number_of_records"
	FieldErrors          = "errors"
)

// CentreNameField is the merge key of the centres collection.
const CentreNameField = "name"

// DateLayout is the format of the date of an import record. It is an
// ISO-8601 local time with second precision.
const DateLayout = "2006-01-02T15:04:05"

// SnapshotLayout is the minute-precision timestamp appended to the name
// of a copied collection.
const SnapshotLayout = "060102_1504"
