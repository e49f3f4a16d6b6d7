package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sigco3111/relationship-visualizer/pkg/ai"
	"github.com/sigco3111/relationship-visualizer/pkg/common"
	"github.com/sigco3111/relationship-visualizer/pkg/logger"
)

// WarningKind classifies an advisory attached to a normalization result.
type WarningKind string

const (
	// WarningMalformedResponse means the answer could not be parsed and the
	// parse-failure fallback graph was used.
	WarningMalformedResponse WarningKind = "malformed_response"
	// WarningInferenceUnavailable means the inference call itself failed and
	// the transport-failure fallback graph was used.
	WarningInferenceUnavailable WarningKind = "inference_unavailable"
	// WarningDroppedCharacter means a character without a usable unique name
	// was left out of the graph.
	WarningDroppedCharacter WarningKind = "dropped_character"
	// WarningRepairedResponse means the answer was not valid JSON and only
	// decoded after repair, so parts of it may be missing.
	WarningRepairedResponse WarningKind = "repaired_response"
)

// Warning is a user-facing advisory.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// FallbackKind tells which fixed graph, if any, replaced the payload.
type FallbackKind string

const (
	FallbackNone      FallbackKind = "none"
	FallbackParse     FallbackKind = "parse_failure"
	FallbackTransport FallbackKind = "transport_failure"
)

// Result is the outcome of normalizing an analysis payload. Graph is always
// usable; callers branch on Warnings instead of on errors.
type Result struct {
	Graph    common.Graph `json:"graph"`
	Warnings []Warning    `json:"warnings"`
	Fallback FallbackKind `json:"fallback"`
}

// NeedsAttention reports whether the user should be shown an advisory.
func (r Result) NeedsAttention() bool {
	return len(r.Warnings) > 0
}

const (
	parseFailureMessage     = "The analysis answer could not be read. Starting from a default example; adjust it in edit mode."
	transportFailureMessage = "The analysis could not be completed. Starting from a default example; add the characters and relationships you want in edit mode."
	repairedMessage         = "The analysis answer was incomplete and had to be repaired. Some characters or relationships may be missing; check them in edit mode."
)

// flexString decodes any JSON scalar into a string so that a stray number or
// null in the answer does not reject the whole graph.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

type rawCharacter struct {
	Name        flexString `json:"name"`
	Role        flexString `json:"role"`
	Description flexString `json:"description"`
}

type rawRelationship struct {
	From        flexString `json:"from"`
	To          flexString `json:"to"`
	Type        flexString `json:"type"`
	Description flexString `json:"description"`
}

type rawGraph struct {
	Characters    []rawCharacter    `json:"characters"`
	Relationships []rawRelationship `json:"relationships"`
}

// Normalize turns an untrusted analysis payload into a graph.
//
// Strings and byte slices are treated as the raw answer text: a surrounding
// code fence is removed, the outermost JSON object is cut out of any prose,
// and the object is decoded leniently. Any other value is JSON-encoded first.
// When nothing usable can be decoded, the parse-failure fallback graph is
// returned together with a malformed_response warning. An answer that only
// decodes after JSON repair must still yield at least one character; the
// result then carries a repaired_response warning.
//
// Roles and relationship types are not checked here; unknown values are kept
// and styled with defaults when rendered.
func Normalize(payload any) Result {
	var text string
	switch v := payload.(type) {
	case nil:
		return parseFailure("empty payload")
	case string:
		text = v
	case *string:
		if v == nil {
			return parseFailure("empty payload")
		}
		text = *v
	case []byte:
		text = string(v)
	case json.RawMessage:
		text = string(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return parseFailure(fmt.Sprintf("payload is not encodable: %v", err))
		}
		text = string(b)
	}

	return normalizeText(text)
}

// NormalizeResponse normalizes the outcome of an inference call. A non-nil
// err selects the transport-failure fallback regardless of payload.
func NormalizeResponse(payload any, err error) Result {
	if err != nil {
		return transportFailure(err)
	}
	return Normalize(payload)
}

func normalizeText(text string) Result {
	cleaned := ai.StripCodeFence(text)
	object, ok := ai.ExtractJSONObject(cleaned)
	if !ok {
		return parseFailure("no JSON object in answer")
	}

	var raw rawGraph
	repaired, err := ai.UnmarshalRepaired(object, &raw)
	if err != nil {
		return parseFailure(err.Error())
	}
	if repaired && len(raw.Characters) == 0 {
		return parseFailure("repaired answer holds no characters")
	}

	result := Result{
		Graph:    common.NewGraph(),
		Warnings: []Warning{},
		Fallback: FallbackNone,
	}

	seen := make(map[string]struct{}, len(raw.Characters))
	for i, rc := range raw.Characters {
		name := strings.TrimSpace(string(rc.Name))
		if name == "" {
			result.Warnings = append(result.Warnings, Warning{
				Kind:    WarningDroppedCharacter,
				Message: fmt.Sprintf("Character #%d has no name and was skipped.", i+1),
			})
			continue
		}
		if _, dup := seen[name]; dup {
			result.Warnings = append(result.Warnings, Warning{
				Kind:    WarningDroppedCharacter,
				Message: fmt.Sprintf("Character %q appears more than once; only the first entry was kept.", name),
			})
			continue
		}
		seen[name] = struct{}{}

		result.Graph.Characters = append(result.Graph.Characters, common.Character{
			Name:        name,
			Role:        common.Role(strings.TrimSpace(string(rc.Role))),
			Description: string(rc.Description),
		})
	}

	for _, rr := range raw.Relationships {
		result.Graph.Relationships = append(result.Graph.Relationships, common.Relationship{
			From:        strings.TrimSpace(string(rr.From)),
			To:          strings.TrimSpace(string(rr.To)),
			Type:        common.RelationshipType(strings.TrimSpace(string(rr.Type))),
			Description: string(rr.Description),
		})
	}

	if len(result.Warnings) > 0 {
		logger.Warn("[Normalize] Dropped characters from answer", "count", len(result.Warnings))
	}
	if repaired {
		logger.Warn("[Normalize] Answer was malformed and has been repaired")
		result.Warnings = append([]Warning{{
			Kind:    WarningRepairedResponse,
			Message: repairedMessage,
		}}, result.Warnings...)
	}
	logger.Debug("[Normalize] Answer parsed",
		"characters", len(result.Graph.Characters),
		"relationships", len(result.Graph.Relationships),
	)

	return result
}

func parseFailure(reason string) Result {
	logger.Warn("[Normalize] Falling back to default graph, answer was malformed", "reason", reason)
	return Result{
		Graph: ParseFailureGraph(),
		Warnings: []Warning{{
			Kind:    WarningMalformedResponse,
			Message: parseFailureMessage,
		}},
		Fallback: FallbackParse,
	}
}

func transportFailure(err error) Result {
	logger.Warn("[Normalize] Falling back to default graph, inference failed", "err", err)
	return Result{
		Graph: TransportFailureGraph(),
		Warnings: []Warning{{
			Kind:    WarningInferenceUnavailable,
			Message: transportFailureMessage,
		}},
		Fallback: FallbackTransport,
	}
}
