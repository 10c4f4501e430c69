package importer

import (
	"strings"
)

// Canonical contact fields an import column can map to.
const (
	FieldPhone     = "phone"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldFullName  = "full_name"
	FieldEmail     = "email"
	FieldCompany   = "company"
	FieldNotes     = "notes"
)

// headerSynonyms maps a normalized header to a canonical field. Normalization
// strips everything but letters and digits and lowercases, so "Phone Number",
// "phone_number" and "PhoneNumber" all land on the same key.
var headerSynonyms = map[string]string{
	"phone":         FieldPhone,
	"phonenumber":   FieldPhone,
	"phoneno":       FieldPhone,
	"mobile":        FieldPhone,
	"mobilenumber":  FieldPhone,
	"cell":          FieldPhone,
	"cellphone":     FieldPhone,
	"telephone":     FieldPhone,
	"tel":           FieldPhone,
	"number":        FieldPhone,
	"contactnumber": FieldPhone,

	"firstname": FieldFirstName,
	"first":     FieldFirstName,
	"fname":     FieldFirstName,
	"givenname": FieldFirstName,

	"lastname":   FieldLastName,
	"last":       FieldLastName,
	"lname":      FieldLastName,
	"surname":    FieldLastName,
	"familyname": FieldLastName,

	"name":        FieldFullName,
	"fullname":    FieldFullName,
	"contactname": FieldFullName,
	"contact":     FieldFullName,

	"email":        FieldEmail,
	"emailaddress": FieldEmail,
	"mail":         FieldEmail,

	"company":      FieldCompany,
	"companyname":  FieldCompany,
	"organization": FieldCompany,
	"organisation": FieldCompany,
	"business":     FieldCompany,

	"notes":       FieldNotes,
	"note":        FieldNotes,
	"comments":    FieldNotes,
	"comment":     FieldNotes,
	"description": FieldNotes,
}

// ColumnMap maps canonical fields to zero-based column indexes.
type ColumnMap map[string]int

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AutoMap matches file headers against the synonym table. An explicit mapping
// (canonical field -> exact header text) wins over auto-detection. Returns
// the map plus any headers that matched nothing.
func AutoMap(headers []string, explicit map[string]string) (ColumnMap, []string) {
	cm := ColumnMap{}
	var unmapped []string

	explicitByHeader := map[string]string{}
	for field, header := range explicit {
		explicitByHeader[normalizeHeader(header)] = field
	}

	for i, h := range headers {
		norm := normalizeHeader(h)
		if norm == "" {
			continue
		}
		if field, ok := explicitByHeader[norm]; ok {
			cm[field] = i
			continue
		}
		field, ok := headerSynonyms[norm]
		if !ok {
			unmapped = append(unmapped, h)
			continue
		}
		// First matching column wins.
		if _, taken := cm[field]; !taken {
			cm[field] = i
		}
	}

	return cm, unmapped
}

func (cm ColumnMap) value(record []string, field string) string {
	idx, ok := cm[field]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
