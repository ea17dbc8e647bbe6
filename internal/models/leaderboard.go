package models

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/segmentio/encoding/json"
)

var ErrInvalidLeaderboard = errors.New("invalid leaderboard")

// MemberID is the numeric AoC user id. Old payloads carry it as a string.
type MemberID int64

func (id MemberID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id MemberID) MarshalJSON() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *MemberID) UnmarshalJSON(b []byte) error {
	text := string(bytes.TrimSpace(b))
	if len(text) > 0 && text[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
	}

	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return fmt.Errorf("member id %s: %w", b, ErrInvalidLeaderboard)
	}

	*id = MemberID(value)
	return nil
}

type Member struct {
	ID    MemberID
	Name  *string
	Stars int
	Extra map[string]json.RawMessage

	// upstream spellings that differ from the canonical encoding
	rawID    json.RawMessage
	rawName  json.RawMessage
	omitName bool
}

type PartialMember struct {
	ID   MemberID `json:"id"`
	Name string   `json:"name"`
}

// DisplayName mirrors how adventofcode.com shows members without a public name.
func (m Member) DisplayName() string {
	if m.Name == nil || *m.Name == "" {
		return fmt.Sprintf("anonymous user #%d", m.ID)
	}
	return *m.Name
}

func (m Member) Partial() PartialMember {
	return PartialMember{ID: m.ID, Name: m.DisplayName()}
}

func (m Member) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(m.Extra)+3)
	for key, value := range m.Extra {
		fields[key] = value
	}

	var err error
	if fields["id"], err = respell(m.rawID, m.ID); err != nil {
		return nil, err
	}
	if m.Name != nil || !m.omitName {
		if fields["name"], err = respell(m.rawName, m.Name); err != nil {
			return nil, err
		}
	}
	if fields["stars"], err = encodeValue(m.Stars); err != nil {
		return nil, err
	}

	return marshalObject(fields)
}

func (m *Member) UnmarshalJSON(b []byte) error {
	fields, err := decodeObject(b)
	if err != nil {
		return err
	}

	var member Member
	rawID := fields["id"]
	if err := takeField(fields, "id", &member.ID, true); err != nil {
		return err
	}
	if member.rawID, err = spelling(rawID, member.ID); err != nil {
		return err
	}
	if err := takeField(fields, "stars", &member.Stars, true); err != nil {
		return err
	}
	if member.Stars < 0 {
		return fmt.Errorf("member %d has negative stars: %w", member.ID, ErrInvalidLeaderboard)
	}
	rawName, ok := fields["name"]
	if !ok {
		member.omitName = true
	}
	if err := takeField(fields, "name", &member.Name, false); err != nil {
		return err
	}
	if ok {
		if member.rawName, err = spelling(rawName, member.Name); err != nil {
			return err
		}
	}
	if len(fields) > 0 {
		member.Extra = fields
	}

	*m = member
	return nil
}

// Leaderboard is one event's private leaderboard as served by adventofcode.com.
// Members is keyed by the member id in decimal, like the upstream payload.
type Leaderboard struct {
	Event   string
	OwnerID MemberID
	Members map[string]Member
	Extra   map[string]json.RawMessage

	rawEvent   json.RawMessage
	rawOwnerID json.RawMessage
}

func (lb *Leaderboard) Owner() (PartialMember, bool) {
	owner, ok := lb.Members[lb.OwnerID.String()]
	if !ok {
		return PartialMember{ID: lb.OwnerID}, false
	}
	return owner.Partial(), true
}

func (lb *Leaderboard) TotalStars() int {
	total := 0
	for _, member := range lb.Members {
		total += member.Stars
	}
	return total
}

func (lb Leaderboard) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(lb.Extra)+3)
	for key, value := range lb.Extra {
		fields[key] = value
	}

	var err error
	if fields["event"], err = encodeValue(lb.Event); err != nil {
		return nil, err
	}
	if lb.rawEvent != nil {
		if event, err := decodeEvent(lb.rawEvent); err == nil && event == lb.Event {
			fields["event"] = lb.rawEvent
		}
	}
	if fields["owner_id"], err = respell(lb.rawOwnerID, lb.OwnerID); err != nil {
		return nil, err
	}

	members := make(map[string]json.RawMessage, len(lb.Members))
	for key, member := range lb.Members {
		encoded, err := member.MarshalJSON()
		if err != nil {
			return nil, err
		}
		members[key] = encoded
	}
	if fields["members"], err = marshalObject(members); err != nil {
		return nil, err
	}

	return marshalObject(fields)
}

func (lb *Leaderboard) UnmarshalJSON(b []byte) error {
	fields, err := decodeObject(b)
	if err != nil {
		return err
	}

	var leaderboard Leaderboard
	var event json.RawMessage
	if err := takeField(fields, "event", &event, true); err != nil {
		return err
	}
	if leaderboard.Event, err = decodeEvent(event); err != nil {
		return err
	}
	if leaderboard.rawEvent, err = spelling(event, leaderboard.Event); err != nil {
		return err
	}
	rawOwnerID := fields["owner_id"]
	if err := takeField(fields, "owner_id", &leaderboard.OwnerID, true); err != nil {
		return err
	}
	if leaderboard.rawOwnerID, err = spelling(rawOwnerID, leaderboard.OwnerID); err != nil {
		return err
	}
	if err := takeField(fields, "members", &leaderboard.Members, true); err != nil {
		return err
	}
	if leaderboard.Members == nil {
		return fmt.Errorf("members is null: %w", ErrInvalidLeaderboard)
	}
	if len(fields) > 0 {
		leaderboard.Extra = fields
	}

	*lb = leaderboard
	return nil
}

// ParseLeaderboard decodes and validates an upstream or cached payload.
func ParseLeaderboard(b []byte) (*Leaderboard, error) {
	var lb Leaderboard
	if err := json.Unmarshal(b, &lb); err != nil {
		if errors.Is(err, ErrInvalidLeaderboard) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidLeaderboard, err)
	}
	if lb.Members == nil {
		return nil, fmt.Errorf("empty payload: %w", ErrInvalidLeaderboard)
	}
	return &lb, nil
}

// EncodeLeaderboard renders lb as indented JSON with sorted keys and a trailing newline.
func EncodeLeaderboard(lb *Leaderboard) ([]byte, error) {
	compact, err := lb.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "    "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func decodeEvent(raw json.RawMessage) (string, error) {
	var event string
	if err := json.Unmarshal(raw, &event); err != nil {
		var year int
		if err := json.Unmarshal(raw, &year); err != nil {
			return "", fmt.Errorf("event %s: %w", raw, ErrInvalidLeaderboard)
		}
		event = strconv.Itoa(year)
	}
	if event == "" {
		return "", fmt.Errorf("event is empty: %w", ErrInvalidLeaderboard)
	}
	return event, nil
}

func decodeObject(b []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLeaderboard, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("expected object, got null: %w", ErrInvalidLeaderboard)
	}

	for key, value := range fields {
		var buf bytes.Buffer
		if err := json.Compact(&buf, value); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidLeaderboard, key, err)
		}
		fields[key] = buf.Bytes()
	}
	return fields, nil
}

func takeField(fields map[string]json.RawMessage, key string, target any, required bool) error {
	raw, ok := fields[key]
	if !ok {
		if required {
			return fmt.Errorf("missing field %q: %w", key, ErrInvalidLeaderboard)
		}
		return nil
	}
	delete(fields, key)

	if err := json.Unmarshal(raw, target); err != nil {
		if errors.Is(err, ErrInvalidLeaderboard) {
			return err
		}
		return fmt.Errorf("%w: field %q: %v", ErrInvalidLeaderboard, key, err)
	}
	return nil
}

// spelling returns raw when it is not how encodeValue would write v, nil otherwise.
func spelling(raw json.RawMessage, v any) (json.RawMessage, error) {
	canonical, err := encodeValue(v)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(raw, canonical) {
		return nil, nil
	}
	return raw, nil
}

// respell writes v the way upstream spelled it, as long as that spelling still
// decodes to v.
func respell[T any](raw json.RawMessage, v T) (json.RawMessage, error) {
	if raw != nil {
		var decoded T
		if err := json.Unmarshal(raw, &decoded); err == nil && reflect.DeepEqual(decoded, v) {
			return raw, nil
		}
	}
	return encodeValue(v)
}

func encodeValue(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// unescapeLineSeparators undoes the \u2028 and \u2029 escapes the encoder adds
// even with HTML escaping off.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}

	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 == len(b) {
			out = append(out, b[i])
			continue
		}
		if rest := b[i:]; bytes.HasPrefix(rest, []byte(`\u2028`)) || bytes.HasPrefix(rest, []byte(`\u2029`)) {
			if rest[5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

func marshalObject(fields map[string]json.RawMessage) ([]byte, error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := encodeValue(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(fields[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ScoreGroup holds every member with the same star count, ordered by id.
type ScoreGroup struct {
	Stars   int      `json:"stars"`
	Members []Member `json:"members"`
}
