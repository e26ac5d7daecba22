package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDescribeRecord(t *testing.T) {
	req := require.New(t)

	val, err := bson.Marshal(DiskMessage{ID: "m1", ChatID: "c1", Text: "hello"})
	req.NoError(err)
	record := DescribeRecord("msg:c1:0000000000000000001:m1", val)
	req.Equal("msg", record.Collection)
	req.Equal("m1", record.ID)
	req.Equal("hello", record.Detail)

	index := DescribeRecord("idx:msg:m1", []byte("msg:c1:0000000000000000001:m1"))
	req.Equal("idx", index.Collection)
	req.Equal("-> msg:c1:0000000000000000001:m1", index.Detail)

	broken := DescribeRecord("team:t1", []byte{0x01})
	req.Contains(broken.Detail, "undecodable")
}
