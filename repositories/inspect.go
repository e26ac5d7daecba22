package repositories

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Record is a human readable view of one raw key/value pair.
type Record struct {
	Key        string
	Collection string
	ID         string
	Detail     string
}

// Field shown as detail for each collection.
var detailFields = map[string]string{
	"user":   "email",
	"team":   "name",
	"chat":   "name",
	"msg":    "text",
	"ann":    "title",
	"res":    "name",
	"typing": "display_name",
}

// DescribeRecord decodes a stored pair for inspection tools. Index entries
// are reported with the primary key they point at.
func DescribeRecord(key string, val []byte) Record {
	collection, _, _ := strings.Cut(key, ":")
	record := Record{Key: key, Collection: collection}
	if collection == "idx" {
		record.Detail = "-> " + string(val)
		return record
	}

	var doc bson.M
	if err := bson.Unmarshal(val, &doc); err != nil {
		record.Detail = fmt.Sprintf("undecodable value: %v", err)
		return record
	}
	if id, ok := doc["_id"].(string); ok {
		record.ID = id
	}
	if field, ok := detailFields[collection]; ok {
		record.Detail = fmt.Sprint(doc[field])
	}
	return record
}
