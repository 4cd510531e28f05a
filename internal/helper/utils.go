package helper

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NewSessionID creates an opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// PrettyPrint dumps a value as indented JSON to stdout.
func PrettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("pretty print failed")
		return
	}
	fmt.Println(string(b))
}
