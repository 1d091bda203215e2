package grading

import (
	"encoding/json"
	"testing"
)

func TestRepairProducesValidJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		key  string
		want interface{}
	}{
		{"already valid", `{"overall_band": 6.5}`, "overall_band", 6.5},
		{"code fence", "```json\n{\"overall_band\": 7}\n```", "overall_band", 7.0},
		{"bare fence", "```\n{\"overall_band\": 7}\n```", "overall_band", 7.0},
		{"surrounding prose", "Here is the evaluation:\n{\"feedback\": \"ok\"}\nHope this helps!", "feedback", "ok"},
		{"trailing comma in object", `{"feedback": "ok", "overall_band": 6,}`, "overall_band", 6.0},
		{"trailing comma in array", `{"items": [1, 2, ], "feedback": "ok"}`, "feedback", "ok"},
		{"raw newline in string", "{\"feedback\": \"line one\nline two\"}", "feedback", "line one\nline two"},
		{"raw tab in string", "{\"feedback\": \"a\tb\"}", "feedback", "a\tb"},
		{"escaped quote kept", `{"feedback": "she said \"hi\""}`, "feedback", `she said "hi"`},
		{"brace inside string", `{"feedback": "use {curly} braces", "overall_band": 5}`, "overall_band", 5.0},
		{"unterminated string", `{"overall_band": 6, "feedback": "Good range of vocab`, "feedback", "Good range of vocab"},
		{"missing closing braces", `{"criteria": {"lexical_resource": 6.5`, "criteria", map[string]interface{}{"lexical_resource": 6.5}},
		{"dangling key separator", `{"overall_band": 6, "feedback":`, "overall_band", 6.0},
		{"dangling comma", `{"overall_band": 6,`, "overall_band", 6.0},
		{"dangling escape", `{"overall_band": 6, "feedback": "ends with \`, "overall_band", 6.0},
		{"stray closer before object", `] {"overall_band": 4}`, "overall_band", 4.0},
		{"single quoted keys and values", `{'overall_band': 6, 'feedback': 'ok'}`, "feedback", "ok"},
		{"single quoted with apostrophe", `{'feedback': 'the writer's view is clear', 'overall_band': 6}`, "feedback", "the writer's view is clear"},
		{"double quote inside single quotes", `{'feedback': 'uses "very" often'}`, "feedback", `uses "very" often`},
		{"escaped single quote", `{'feedback': 'it\'s fine'}`, "feedback", "it's fine"},
		{"apostrophe inside double quotes", `{"feedback": "it's fine", "overall_band": 7}`, "feedback", "it's fine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repaired := Repair(tt.raw)
			var got map[string]interface{}
			if err := json.Unmarshal([]byte(repaired), &got); err != nil {
				t.Fatalf("Repair(%q) = %q, not valid JSON: %v", tt.raw, repaired, err)
			}
			switch want := tt.want.(type) {
			case map[string]interface{}:
				inner, ok := got[tt.key].(map[string]interface{})
				if !ok {
					t.Fatalf("%s = %v, want object", tt.key, got[tt.key])
				}
				for k, v := range want {
					if inner[k] != v {
						t.Errorf("%s.%s = %v, want %v", tt.key, k, inner[k], v)
					}
				}
			default:
				if got[tt.key] != want {
					t.Errorf("%s = %v, want %v", tt.key, got[tt.key], want)
				}
			}
		})
	}
}

func TestRepairWithoutObject(t *testing.T) {
	if got := Repair("I cannot grade this response."); got != "I cannot grade this response." {
		t.Errorf("Repair() = %q, want input unchanged", got)
	}
}

func TestRepairDropsTextAfterObject(t *testing.T) {
	got := Repair(`{"a": 1} {"b": 2}`)
	if got != `{"a": 1}` {
		t.Errorf("Repair() = %q, want only the first object", got)
	}
}
