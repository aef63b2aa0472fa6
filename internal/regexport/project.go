package regexport

import (
	"strconv"
	"strings"

	"github.com/residently/registry-backend/internal/registry"
)

// Column headers match the operator-facing table, which is Russian.
var header = []string{
	"Имя", "Фамилия", "Телефон", "Микрорайон", "Дом", "Квартира", "Этаж", "Дата заезда",
}

// dateLayout is the short date form the registry UI shows; the importer
// accepts it back.
const dateLayout = "02.01.2006"

// Project flattens the joined resident rows into the export file: UTF-8 with
// a BOM, semicolon-delimited, every field quoted with internal quotes
// doubled. Rows with a broken apartment or house join render those fields
// empty instead of failing the export.
func Project(rows []registry.ResidentRow) []byte {
	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString(strings.Join(header, ";"))

	for _, row := range rows {
		date := ""
		if !row.MoveInDate.IsZero() {
			date = row.MoveInDate.Format(dateLayout)
		}
		fields := []string{
			row.FirstName,
			row.LastName,
			row.Phone,
			strVal(row.Microdistrict),
			strVal(row.HouseNumber),
			intVal(row.ApartmentNum),
			intVal(row.Floor),
			date,
		}
		for i, f := range fields {
			fields[i] = quote(f)
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(fields, ";"))
	}
	return []byte(b.String())
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intVal(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
