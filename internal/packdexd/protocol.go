package packdexd

import (
	"encoding/json"

	"packdex/internal/model"
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Application error codes beyond the JSON-RPC reserved range.
const (
	CodeBuildInProgress = -32001
	CodeInvalidQuery    = -32002
)

type SearchParams struct {
	Text           string `json:"text"`
	CollectionType string `json:"collection_type,omitempty"`
}

type RebuildParams struct {
	Force bool `json:"force,omitempty"`
}

type RebuildResult struct {
	Profiles  int  `json:"profiles"`
	Persisted bool `json:"persisted"`
}

type StatusResult struct {
	World    string        `json:"world"`
	Dialect  model.Dialect `json:"dialect"`
	Backend  string        `json:"backend"`
	Building bool          `json:"building"`
	Loaded   bool          `json:"loaded"`
	Profiles int           `json:"profiles"`
	BuiltAt  int64         `json:"built_at,omitempty"`
	BuildID  string        `json:"build_id,omitempty"`
}
