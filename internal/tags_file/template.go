package tags_file

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/solidcopy/tagcore/internal/model"
)

const (
	customSection = "[custom]"
	keySeparator  = ": "
)

// Template is the parsed form of a field template.
type Template struct {
	// Fields maps field names to a value, a []string or nil to remove.
	Fields       map[string]any
	CustomFields map[string]string
}

// WriteTemplate lists every writable field of track, one per line, with
// its current value. Custom fields follow under [custom].
func WriteTemplate(w io.Writer, track *model.Track) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("# empty values remove the field; lists are separated by " + separator + "\n")

	for _, f := range model.Fields {
		values, _ := track.Values(f)
		bw.WriteString(string(f))
		bw.WriteString(keySeparator)
		bw.WriteString(escape(strings.Join(values, separator)))
		bw.WriteString("\n")
	}

	bw.WriteString("\n")
	bw.WriteString(customSection)
	bw.WriteString("\n")

	keys := make([]string, 0, len(track.CustomFields))
	for key := range track.CustomFields {
		// catalog records are listed as fields above
		if model.IsCatalogKey(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		bw.WriteString(escape(key))
		bw.WriteString(keySeparator)
		bw.WriteString(escape(track.CustomFields[key]))
		bw.WriteString("\n")
	}

	return bw.Flush()
}

// ReadTemplate parses a template written by WriteTemplate. Names that are
// not canonical fields are kept as native field names.
func ReadTemplate(r io.Reader) (*Template, error) {
	tmpl := &Template{Fields: map[string]any{}, CustomFields: map[string]string{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	custom := false
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.TrimSpace(line) == customSection {
			custom = true
			continue
		}

		key, value, ok := strings.Cut(line, keySeparator)
		if !ok {
			key, value, ok = strings.Cut(line, ":")
		}
		if !ok {
			return nil, fmt.Errorf("line %d: missing %q", lineNumber, keySeparator)
		}
		key = unescape(strings.TrimSpace(key))
		value = unescape(value)

		if custom {
			tmpl.CustomFields[key] = value
			continue
		}

		tmpl.Fields[key] = fieldValue(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return tmpl, nil
}

func fieldValue(key, value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	f, ok := model.LookupField(key)
	if ok && f.Kind() != model.KindList {
		return value
	}

	values := splitValues(value)
	if !ok && len(values) == 1 {
		return values[0]
	}
	return values
}

var escaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)

func escape(s string) string {
	return escaper.Replace(s)
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
