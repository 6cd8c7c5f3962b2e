package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pavelanni/drill/internal/model"
)

// record is the on-disk shape of a question. Favorite and Stats are pointers
// so that decoding can tell an absent key from a zero value.
type record struct {
	ID       int64        `json:"id"`
	Question string       `json:"question"`
	OptionA  string       `json:"option_A,omitempty"`
	OptionB  string       `json:"option_B,omitempty"`
	OptionC  string       `json:"option_C,omitempty"`
	OptionD  string       `json:"option_D,omitempty"`
	OptionE  string       `json:"option_E,omitempty"`
	Answer   string       `json:"answer"`
	Note     string       `json:"note,omitempty"`
	Favorite *bool        `json:"favorite,omitempty"`
	Stats    *model.Stats `json:"stats,omitempty"`
}

var knownKeys = []string{
	"id", "question", "option_A", "option_B", "option_C", "option_D", "option_E",
	"answer", "note", "favorite", "stats",
}

// omittable lists the known keys that encodeQuestion leaves out when empty.
var omittable = map[string]bool{
	"option_A": true, "option_B": true, "option_C": true, "option_D": true, "option_E": true,
	"note": true,
}

// decodeBank parses a JSON array of records. It reports how many records
// lacked stats or favorite and were given defaults.
func decodeBank(data []byte) ([]model.Question, int, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, 0, err
	}

	questions := make([]model.Question, 0, len(raws))
	backfilled := 0
	for i, raw := range raws {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, 0, fmt.Errorf("record %d: %w", i, err)
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, 0, fmt.Errorf("record %d: %w", i, err)
		}
		for _, k := range knownKeys {
			// An empty optional key is kept raw so the rewrite still carries it.
			if omittable[k] && isEmptyValue(fields[k]) {
				continue
			}
			delete(fields, k)
		}
		if len(fields) == 0 {
			fields = nil
		}

		q := model.Question{
			ID:      rec.ID,
			Text:    rec.Question,
			OptionA: rec.OptionA,
			OptionB: rec.OptionB,
			OptionC: rec.OptionC,
			OptionD: rec.OptionD,
			OptionE: rec.OptionE,
			Answer:  rec.Answer,
			Note:    rec.Note,
			Extra:   fields,
		}
		if rec.Stats == nil || rec.Favorite == nil {
			backfilled++
		}
		if rec.Stats != nil {
			q.Stats = *rec.Stats
		}
		if rec.Favorite != nil {
			q.Favorite = *rec.Favorite
		}
		questions = append(questions, q)
	}
	return questions, backfilled, nil
}

// encodeBank renders the full question list with two-space indentation.
// Characters are written verbatim, without HTML escaping.
func encodeBank(questions []model.Question) ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(questions))
	for _, q := range questions {
		raw, err := encodeQuestion(q)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", q.ID, err)
		}
		raws = append(raws, raw)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raws); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeQuestion(q model.Question) (json.RawMessage, error) {
	fav := q.Favorite
	st := q.Stats
	rec := record{
		ID:       q.ID,
		Question: q.Text,
		OptionA:  q.OptionA,
		OptionB:  q.OptionB,
		OptionC:  q.OptionC,
		OptionD:  q.OptionD,
		OptionE:  q.OptionE,
		Answer:   q.Answer,
		Note:     q.Note,
		Favorite: &fav,
		Stats:    &st,
	}
	known, err := marshalVerbatim(rec)
	if err != nil {
		return nil, err
	}
	if len(q.Extra) == 0 {
		return known, nil
	}

	// Unknown keys are merged back in; known fields win on collision.
	merged := make(map[string]json.RawMessage, len(q.Extra)+len(knownKeys))
	for k, v := range q.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return marshalVerbatim(merged)
}

func marshalVerbatim(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// isEmptyValue reports whether a present raw value decodes to the zero string.
func isEmptyValue(raw json.RawMessage) bool {
	if raw == nil {
		return false
	}
	switch string(bytes.TrimSpace(raw)) {
	case "null", `""`:
		return true
	}
	return false
}
