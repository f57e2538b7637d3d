package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// StringFieldNames lists every scalar field of the record schema, in the
// order they appear in the generative prompt. The repair tier's manual
// extractor and the schema builder share this list so neither drifts.
func StringFieldNames() []string {
	return []string{
		"case_number",
		"filing_date",
		"case_type",
		"court",
		"plaintiff",
		"defendant",
		"trustee",
		"property_address",
		"legal_description",
		"parcel_number",
		"lot_block_subdivision",
		"original_loan_amount",
		"unpaid_balance",
		"total_debt",
		"deed_of_trust_date",
		"deed_of_trust_recording_date",
		"deed_of_trust_volume_page",
		"deed_of_trust_instrument_number",
		"deed_of_trust_number",
		"sale_date",
		"sale_time",
		"sale_location",
		"lender_name",
	}
}

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. Every field is nullable: the prompt instructs the model to
// emit null for anything the document does not state.
func BuildRecordJSONSchema() map[string]any {
	props := map[string]any{}
	for _, name := range StringFieldNames() {
		props[name] = map[string]any{"type": []string{"string", "null"}}
	}
	props["borrower_names"] = map[string]any{
		"type":  []string{"array", "null"},
		"items": map[string]any{"type": "string"},
	}
	props["attorney_info"] = map[string]any{
		"type":                 []string{"object", "null"},
		"additionalProperties": map[string]any{"type": []string{"string", "null"}},
	}
	props["ai_confidence"] = map[string]any{"type": []string{"string", "null"}}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

// ValidateObject validates a decoded response object against the record
// schema. Callers sanitize first; this is the gate that keeps malformed
// upstream shapes away from downstream code.
func ValidateObject(obj map[string]any) error {
	b, err := json.Marshal(BuildRecordJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("record.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	// Round-trip so numeric types match what json.Unmarshal would produce.
	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal object: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal object: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("object does not match record schema: %w", err)
	}
	return nil
}
