package graph

import (
	"errors"
	"testing"

	"github.com/sigco3111/relationship-visualizer/pkg/common"
)

func TestNormalize_ValidAnswers(t *testing.T) {
	tests := []struct {
		name      string
		payload   any
		wantNames []string
		wantRels  int
	}{
		{
			name:      "fenced json",
			payload:   "```json\n{\"characters\":[{\"name\":\"A\",\"role\":\"main\",\"description\":\"d\"}],\"relationships\":[]}\n```",
			wantNames: []string{"A"},
		},
		{
			name:      "bare fence",
			payload:   "```\n{\"characters\":[{\"name\":\"A\",\"role\":\"main\"}]}\n```",
			wantNames: []string{"A"},
		},
		{
			name:      "prose around object",
			payload:   "Sure! Here is the result: {\"characters\":[{\"name\":\"A\"},{\"name\":\"B\"}],\"relationships\":[{\"from\":\"A\",\"to\":\"B\",\"type\":\"friend\"}]} Let me know.",
			wantNames: []string{"A", "B"},
			wantRels:  1,
		},
		{
			name:      "byte slice",
			payload:   []byte(`{"characters":[{"name":"A"}]}`),
			wantNames: []string{"A"},
		},
		{
			name:      "numeric name is stringified",
			payload:   `{"characters":[{"name":42,"role":null}]}`,
			wantNames: []string{"42"},
		},
		{
			name:      "missing arrays",
			payload:   `{}`,
			wantNames: []string{},
		},
		{
			name: "structured value",
			payload: analysisResponse{
				Characters: []analysisCharacter{{Name: "A", Role: "main"}, {Name: "B", Role: "villain"}},
				Relationships: []analysisRelationship{
					{From: "A", To: "B", Type: "enemy"},
				},
			},
			wantNames: []string{"A", "B"},
			wantRels:  1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.payload)
			if got.Fallback != FallbackNone {
				t.Fatalf("Fallback = %q, want %q", got.Fallback, FallbackNone)
			}
			if got.NeedsAttention() {
				t.Fatalf("unexpected warnings: %+v", got.Warnings)
			}
			if got.Graph.Characters == nil || got.Graph.Relationships == nil {
				t.Fatalf("graph slices must be non-nil: %+v", got.Graph)
			}
			if len(got.Graph.Characters) != len(tc.wantNames) {
				t.Fatalf("got %d characters, want %d", len(got.Graph.Characters), len(tc.wantNames))
			}
			for i, name := range tc.wantNames {
				if got.Graph.Characters[i].Name != name {
					t.Fatalf("character %d = %q, want %q", i, got.Graph.Characters[i].Name, name)
				}
			}
			if len(got.Graph.Relationships) != tc.wantRels {
				t.Fatalf("got %d relationships, want %d", len(got.Graph.Relationships), tc.wantRels)
			}
		})
	}
}

func TestNormalize_ParseFailure(t *testing.T) {
	tests := []struct {
		name    string
		payload any
	}{
		{name: "nil", payload: nil},
		{name: "empty string", payload: ""},
		{name: "not json at all", payload: "not json at all"},
		{name: "nil string pointer", payload: (*string)(nil)},
		{name: "wrong array type", payload: `{"characters":"oops"}`},
		{name: "json null", payload: "null"},
		{name: "bare key repaired to nothing", payload: "{foo"},
		{name: "truncated before any character", payload: `{"characters": [`},
		{name: "repaired object without characters", payload: `{"relationships": [{"from": "A", "to": "B",}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.payload)
			if got.Fallback != FallbackParse {
				t.Fatalf("Fallback = %q, want %q", got.Fallback, FallbackParse)
			}
			if !got.NeedsAttention() {
				t.Fatalf("expected an advisory")
			}
			if got.Warnings[0].Kind != WarningMalformedResponse {
				t.Fatalf("warning kind = %q", got.Warnings[0].Kind)
			}
			if len(got.Graph.Characters) != 2 || len(got.Graph.Relationships) != 1 {
				t.Fatalf("unexpected fallback graph: %+v", got.Graph)
			}
			if got.Graph.Characters[0].Name != "Protagonist" || got.Graph.Characters[0].Role != common.RoleMain {
				t.Fatalf("unexpected first character: %+v", got.Graph.Characters[0])
			}
		})
	}
}

func TestNormalize_RepairedAnswers(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantNames []string
	}{
		{
			name:      "trailing commas",
			payload:   `{"characters":[{"name":"A",},],}`,
			wantNames: []string{"A"},
		},
		{
			name:      "truncated object",
			payload:   `{"characters": [{"name": "A", "role": "main"`,
			wantNames: []string{"A"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.payload)
			if got.Fallback != FallbackNone {
				t.Fatalf("Fallback = %q, want %q", got.Fallback, FallbackNone)
			}
			if len(got.Warnings) != 1 || got.Warnings[0].Kind != WarningRepairedResponse {
				t.Fatalf("warnings = %+v, want one %q", got.Warnings, WarningRepairedResponse)
			}
			if len(got.Graph.Characters) != len(tc.wantNames) {
				t.Fatalf("got %d characters, want %d", len(got.Graph.Characters), len(tc.wantNames))
			}
			for i, name := range tc.wantNames {
				if got.Graph.Characters[i].Name != name {
					t.Fatalf("character %d = %q, want %q", i, got.Graph.Characters[i].Name, name)
				}
			}
		})
	}
}

func TestNormalizeResponse_TransportFailure(t *testing.T) {
	got := NormalizeResponse(`{"characters":[{"name":"A"}]}`, errors.New("connection refused"))

	if got.Fallback != FallbackTransport {
		t.Fatalf("Fallback = %q, want %q", got.Fallback, FallbackTransport)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Kind != WarningInferenceUnavailable {
		t.Fatalf("unexpected warnings: %+v", got.Warnings)
	}
	if len(got.Graph.Characters) != 3 || len(got.Graph.Relationships) != 2 {
		t.Fatalf("unexpected fallback graph: %+v", got.Graph)
	}
	if got.Graph.Characters[2].Role != common.RoleVillain {
		t.Fatalf("third character role = %q, want villain", got.Graph.Characters[2].Role)
	}
}

func TestNormalizeResponse_NoError(t *testing.T) {
	got := NormalizeResponse(`{"characters":[{"name":"A"}]}`, nil)
	if got.Fallback != FallbackNone || len(got.Graph.Characters) != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestNormalize_DropsUnusableCharacters(t *testing.T) {
	payload := `{"characters":[
		{"name":"A","role":"main"},
		{"name":"","role":"support"},
		{"name":"A","role":"villain"},
		{"name":"  B  ","role":"minor"}
	],"relationships":[{"from":"A","to":"B","type":"rival"}]}`

	got := Normalize(payload)

	if got.Fallback != FallbackNone {
		t.Fatalf("Fallback = %q, want none", got.Fallback)
	}
	if len(got.Graph.Characters) != 2 {
		t.Fatalf("got %d characters, want 2: %+v", len(got.Graph.Characters), got.Graph.Characters)
	}
	if got.Graph.Characters[0].Role != common.RoleMain {
		t.Fatalf("first occurrence must win, got role %q", got.Graph.Characters[0].Role)
	}
	if got.Graph.Characters[1].Name != "B" {
		t.Fatalf("name not trimmed: %q", got.Graph.Characters[1].Name)
	}
	if len(got.Warnings) != 2 {
		t.Fatalf("got %d warnings, want 2", len(got.Warnings))
	}
	for _, w := range got.Warnings {
		if w.Kind != WarningDroppedCharacter {
			t.Fatalf("warning kind = %q", w.Kind)
		}
	}
	if got.Graph.Relationships[0].Type != "rival" {
		t.Fatalf("unknown relationship type must be kept, got %q", got.Graph.Relationships[0].Type)
	}
}

func TestFallbackGraphsAreFreshCopies(t *testing.T) {
	first := Normalize(nil)
	first.Graph.Characters[0].Name = "changed"
	first.Graph.Relationships = append(first.Graph.Relationships, common.Relationship{From: "x", To: "y"})

	second := Normalize(nil)
	if second.Graph.Characters[0].Name != "Protagonist" {
		t.Fatalf("fallback graph was shared between calls")
	}
	if len(second.Graph.Relationships) != 1 {
		t.Fatalf("fallback relationships were shared between calls")
	}

	transport := TransportFailureGraph()
	transport.Characters[0].Name = "changed"
	if ParseFailureGraph().Characters[0].Name != "Protagonist" {
		t.Fatalf("transport graph aliases the parse graph")
	}
}
