package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ContactStatus tracks follow-up on a storefront contact request
type ContactStatus int

const (
	ContactStatusNew       ContactStatus = 0
	ContactStatusContacted ContactStatus = 1
	ContactStatusClosed    ContactStatus = 2
)

var contactStatusNames = [...]string{"NUEVO", "CONTACTADO", "CERRADO"}

func (s ContactStatus) String() string {
	if int(s) < 0 || int(s) >= len(contactStatusNames) {
		return contactStatusNames[0]
	}
	return contactStatusNames[s]
}

func ParseContactStatus(str string) (ContactStatus, error) {
	upper := strings.ToUpper(strings.TrimSpace(str))
	for i, name := range contactStatusNames {
		if name == upper {
			return ContactStatus(i), nil
		}
	}
	return ContactStatusNew, fmt.Errorf("unknown contact status %q", str)
}

func (s ContactStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ContactStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ContactStatus(i)
		return nil
	}
	parsed, err := ParseContactStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s ContactStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ContactStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ContactStatusNew
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ContactStatus(v)
	case int:
		*s = ContactStatus(v)
	}
	return nil
}

// ContactSource records which storefront channel produced a contact
type ContactSource string

const (
	ContactSourceWhatsApp ContactSource = "whatsapp"
	ContactSourceForm     ContactSource = "form"
)
