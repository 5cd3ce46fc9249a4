package iomongo

import (
	"github.com/gnames/sampledb/pkg/docstore"
	"go.mongodb.org/mongo-driver/bson"
)

// normalizeDoc converts decoded BSON into plain Go maps and slices, so
// documents look the same for every backend.
func normalizeDoc(m bson.M) docstore.Document {
	res := make(docstore.Document, len(m))
	for k, v := range m {
		res[k] = normalize(v)
	}
	return res
}

func normalize(v any) any {
	switch x := v.(type) {
	case bson.M:
		return normalizeDoc(x)
	case map[string]any:
		return normalizeDoc(bson.M(x))
	case bson.D:
		res := make(docstore.Document, len(x))
		for _, e := range x {
			res[e.Key] = normalize(e.Value)
		}
		return res
	case bson.A:
		res := make([]any, len(x))
		for i := range x {
			res[i] = normalize(x[i])
		}
		return res
	default:
		return v
	}
}
