// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

// =============================================================================
// PENDING REQUEST
// =============================================================================

// PendingRequest tracks a detected tool invocation awaiting user-supplied
// parameters. At most one exists at a time; it is discarded on submission
// or cancel.
type PendingRequest struct {
	Tool            *Tool
	Params          map[string]string
	OriginalMessage string
}

// NewPendingRequest starts parameter collection from a detection match.
func NewPendingRequest(m *Match) *PendingRequest {
	params := make(map[string]string, len(m.Params))
	for k, v := range m.Params {
		params[k] = v
	}
	return &PendingRequest{
		Tool:            m.Tool,
		Params:          params,
		OriginalMessage: m.OriginalMessage,
	}
}

// Merge folds submitted form values into the collected parameters. Empty
// values never overwrite an extracted one.
func (p *PendingRequest) Merge(values map[string]string) {
	for k, v := range values {
		if v != "" {
			p.Params[k] = v
		}
	}
}

// Complete reports whether every required parameter has a value.
func (p *PendingRequest) Complete() bool {
	return p.Tool.HasAllRequired(p.Params)
}

// Missing returns the required parameters still lacking values, in
// declaration order.
func (p *PendingRequest) Missing() []Parameter {
	return p.Tool.MissingParameters(p.Params)
}
