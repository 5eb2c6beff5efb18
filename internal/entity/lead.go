package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type LeadStatus string

const (
	StatusNew       LeadStatus = "New"
	StatusContacted LeadStatus = "Contacted"
	StatusQualified LeadStatus = "Qualified"
	StatusLost      LeadStatus = "Lost"
	StatusMeeting   LeadStatus = "Meeting"
	StatusWon       LeadStatus = "Won"
)

// LeadStatuses is the fixed pipeline enumeration, in board order.
var LeadStatuses = []LeadStatus{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusMeeting,
	StatusWon,
	StatusLost,
}

func (s LeadStatus) Valid() bool {
	for _, known := range LeadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseLeadStatus matches raw exactly against the enumeration.
func ParseLeadStatus(raw string) (LeadStatus, bool) {
	s := LeadStatus(raw)
	return s, s.Valid()
}

// Recognized metadata keys. Anything else submitted by a capture agent is
// kept as a free extension key.
const (
	MetaOriginalStatus = "original_status"
	MetaLocation       = "location"
	MetaIntent         = "intent"
	MetaSocialMedia    = "social_media"
)

// Metadata is persisted as a JSONB column (leads.meta_data).
type Metadata map[string]any

func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return v
}

func (m Metadata) OriginalStatus() string { return m.String(MetaOriginalStatus) }

func (m Metadata) Location() string { return m.String(MetaLocation) }

func (m Metadata) Intent() string { return m.String(MetaIntent) }

// SocialMedia returns the folded network -> handle map. Values decoded from
// JSON arrive as map[string]any and are converted back.
func (m Metadata) SocialMedia() map[string]string {
	switch v := m[MetaSocialMedia].(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, raw := range v {
			if s, ok := raw.(string); ok {
				out[k] = s
			}
		}
		return out
	default:
		return nil
	}
}

// Value encodes as a JSON string so both pgx and lib/pq bind it to jsonb.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *Metadata) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("metadata: unsupported scan type %T", src)
	}

	out := Metadata{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

type Lead struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Company    string     `json:"company,omitempty"`
	Role       string     `json:"role,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Status     LeadStatus `json:"status"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
	Metadata   Metadata   `json:"meta_data"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DisplayName is used in logs and audit summaries.
func (l Lead) DisplayName() string {
	if l.Name == "" {
		return "Unknown"
	}
	return l.Name
}
