package lockfile

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/home-lang/pantry/internal/pantryerr"
	"gopkg.in/yaml.v3"
)

// berryEntry mirrors the subset of a Yarn Berry (yarn.lock v2+, YAML)
// package block this importer understands. The metadata block
// ("__metadata") is skipped via the descriptor check below.
type berryEntry struct {
	Version      string            `yaml:"version"`
	Resolution   string            `yaml:"resolution"`
	Checksum     string            `yaml:"checksum"`
	Dependencies map[string]string `yaml:"dependencies"`
}

// ImportYarnClassic parses a Yarn classic (v1) lockfile. The v1 format
// is a flat, hand-rolled block grammar (not JSON or YAML): each block
// starts with one or more comma-separated "name@range" descriptors
// followed by a colon, then two-space-indented "key value" lines.
func ImportYarnClassic(data []byte, generatedAt int64) (*Lockfile, error) {
	out := New("", generatedAt)

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	var descriptors []string
	fields := map[string]string{}

	flush := func() {
		if len(descriptors) == 0 {
			return
		}
		name := yarnPackageName(descriptors[0])
		if name != "" {
			out.Put(Entry{
				Name:      name,
				Version:   fields["version"],
				Source:    "npm",
				Resolved:  fields["resolved"],
				Integrity: fields["integrity"],
			})
		}
		descriptors = nil
		fields = map[string]string{}
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimRight(line, " \r")
		if trimmed == "" || strings.HasPrefix(strings.TrimSpace(trimmed), "#") {
			continue
		}
		if !strings.HasPrefix(trimmed, " ") {
			// A new top-level block: flush the previous one and start parsing
			// its descriptor list.
			flush()
			header := strings.TrimSuffix(trimmed, ":")
			for _, d := range strings.Split(header, ",") {
				d = strings.Trim(strings.TrimSpace(d), "\"")
				if d != "" {
					descriptors = append(descriptors, d)
				}
			}
			continue
		}
		key, value, ok := splitYarnField(trimmed)
		if ok {
			fields[key] = value
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, pantryerr.Wrap(pantryerr.KindLockfileParse, err, "scanning yarn classic lockfile")
	}
	return out, nil
}

// splitYarnField parses a two-space-indented "key value" or
// "key \"value\"" line into (key, value).
func splitYarnField(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	idx := strings.IndexByte(trimmed, ' ')
	if idx == -1 {
		return "", "", false
	}
	key := trimmed[:idx]
	value := strings.TrimSpace(trimmed[idx+1:])
	if unquoted, err := strconv.Unquote(value); err == nil {
		value = unquoted
	}
	return key, value, true
}

// yarnPackageName strips the "@version-range" suffix off a yarn.lock
// descriptor key such as "lodash@^4.17.21", returning "lodash". Scoped
// packages ("@scope/name@range") are handled by searching from the
// second '@'.
func yarnPackageName(descriptor string) string {
	if strings.HasPrefix(descriptor, "@") {
		secondAt := strings.IndexByte(descriptor[1:], '@')
		if secondAt == -1 {
			return descriptor
		}
		return descriptor[:secondAt+1]
	}
	at := strings.IndexByte(descriptor, '@')
	if at <= 0 {
		return descriptor
	}
	return descriptor[:at]
}

// ImportYarnBerry parses a Yarn Berry (yarn.lock v2+) YAML document and
// converts it to the canonical Lockfile shape. The "__metadata" block is
// skipped.
func ImportYarnBerry(data []byte, generatedAt int64) (*Lockfile, error) {
	raw := make(map[string]berryEntry)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, pantryerr.Wrap(pantryerr.KindLockfileParse, err, "parsing yarn berry lockfile")
	}

	out := New("", generatedAt)
	for descriptor, entry := range raw {
		if descriptor == "__metadata" {
			continue
		}
		name := yarnPackageName(descriptor)
		if name == "" {
			continue
		}
		out.Put(Entry{
			Name:         name,
			Version:      entry.Version,
			Source:       "npm",
			Resolved:     entry.Resolution,
			Integrity:    entry.Checksum,
			Dependencies: entry.Dependencies,
		})
	}
	return out, nil
}
