package mongodb

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/sglre6355/guildkeeper/internal/guilddata"
)

// toBSONValue converts a JSON value into its BSON equivalent through
// relaxed Extended JSON.
func toBSONValue(value json.RawMessage) (any, error) {
	wrapped := make([]byte, 0, len(value)+6)
	wrapped = append(wrapped, `{"v":`...)
	wrapped = append(wrapped, value...)
	wrapped = append(wrapped, '}')

	var doc bson.D
	if err := bson.UnmarshalExtJSON(wrapped, false, &doc); err != nil {
		return nil, fmt.Errorf("convert value to bson: %w", err)
	}
	if len(doc) != 1 {
		return nil, fmt.Errorf("convert value to bson: unexpected document %v", doc)
	}
	return doc[0].Value, nil
}

// toDocument converts a stored document into a guild document, dropping the
// _id and GUILD_ID bookkeeping fields.
func toDocument(raw bson.Raw) (guilddata.Document, error) {
	ext, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("convert bson document: %w", err)
	}

	doc := guilddata.Document{}
	if err := json.Unmarshal(ext, &doc); err != nil {
		return nil, fmt.Errorf("decode guild document: %w", err)
	}
	delete(doc, guilddata.FieldObjectID)
	delete(doc, guilddata.FieldGuildID)
	return doc, nil
}
