package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// QuotationStatus represents the lifecycle state of a quotation
type QuotationStatus int

const (
	QuotationStatusDraft    QuotationStatus = 0
	QuotationStatusSent     QuotationStatus = 1
	QuotationStatusApproved QuotationStatus = 2
	QuotationStatusRejected QuotationStatus = 3
	QuotationStatusExpired  QuotationStatus = 4
)

var quotationStatusNames = [...]string{"BORRADOR", "ENVIADA", "APROBADA", "RECHAZADA", "VENCIDA"}

func (s QuotationStatus) String() string {
	if int(s) < 0 || int(s) >= len(quotationStatusNames) {
		return quotationStatusNames[0]
	}
	return quotationStatusNames[s]
}

// IsValid reports whether s is one of the known statuses.
func (s QuotationStatus) IsValid() bool {
	return int(s) >= 0 && int(s) < len(quotationStatusNames)
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s QuotationStatus) IsTerminal() bool {
	return s == QuotationStatusApproved || s == QuotationStatusRejected || s == QuotationStatusExpired
}

// CanTransitionTo reports whether s may move to next. Transitions only go
// forward: BORRADOR -> ENVIADA -> APROBADA | RECHAZADA | VENCIDA. A draft may
// also be expired or rejected directly.
func (s QuotationStatus) CanTransitionTo(next QuotationStatus) bool {
	if !next.IsValid() || s.IsTerminal() || next == s {
		return false
	}
	switch s {
	case QuotationStatusDraft:
		return next == QuotationStatusSent || next == QuotationStatusRejected || next == QuotationStatusExpired
	case QuotationStatusSent:
		return next == QuotationStatusApproved || next == QuotationStatusRejected || next == QuotationStatusExpired
	}
	return false
}

// ParseQuotationStatus accepts the status name in any case.
func ParseQuotationStatus(str string) (QuotationStatus, error) {
	upper := strings.ToUpper(strings.TrimSpace(str))
	for i, name := range quotationStatusNames {
		if name == upper {
			return QuotationStatus(i), nil
		}
	}
	return QuotationStatusDraft, fmt.Errorf("unknown quotation status %q", str)
}

func (s QuotationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *QuotationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = QuotationStatus(i)
		return nil
	}
	parsed, err := ParseQuotationStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s QuotationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *QuotationStatus) Scan(value interface{}) error {
	if value == nil {
		*s = QuotationStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = QuotationStatus(v)
	case int:
		*s = QuotationStatus(v)
	}
	return nil
}
