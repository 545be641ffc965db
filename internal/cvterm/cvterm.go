// Package cvterm loads and queries controlled-vocabulary term graphs in
// the OBO flat-file format (spec.md §4.3): PSI-MS, unit, and similar
// CVs used to annotate mzML accession numbers.
package cvterm

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/openms-go/mscore/internal/errs"
	"github.com/openms-go/mscore/internal/progress"
)

// ValueType is the XSD primitive type a term's value is declared to
// hold, parsed from an "xref:value-type" line.
type ValueType int

const (
	ValueTypeNone ValueType = iota
	ValueTypeString
	ValueTypeInteger
	ValueTypeDecimal
	ValueTypeNegativeInteger
	ValueTypePositiveInteger
	ValueTypeNonNegativeInteger
	ValueTypeNonPositiveInteger
	ValueTypeBoolean
	ValueTypeDate
	ValueTypeAnyURI
)

// Term is one [Term] stanza of an OBO file.
type Term struct {
	ID          string
	Name        string
	Description string
	Parents     map[string]struct{}
	Children    map[string]struct{}
	Units       map[string]struct{}
	Synonyms    []string
	Obsolete    bool
	XRefType    ValueType
	XRefBinary  []string
	Unparsed    []string
}

func newTerm() Term {
	return Term{
		Parents:  make(map[string]struct{}),
		Children: make(map[string]struct{}),
		Units:    make(map[string]struct{}),
	}
}

// Vocabulary is a loaded CV: a named, id-indexed term graph with parent/
// child links resolved after the full file is read (spec.md §4.3).
type Vocabulary struct {
	name        string
	terms       map[string]Term
	namesToIDs  map[string]string
}

// Name returns the CV's registered name (e.g. "MS", "brenda").
func (v *Vocabulary) Name() string { return v.name }

// LoadOBO parses r as an OBO file and returns the resulting Vocabulary,
// registered under name. Brenda's non-standard "relationship:DRV" and
// "relationship:part_of" lines are only recognized when name == "brenda",
// matching the source grammar's CV-specific special case.
func LoadOBO(name string, r io.Reader) (*Vocabulary, error) {
	v := &Vocabulary{name: name, terms: make(map[string]Term), namesToIDs: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inTerm := false
	term := newTerm()
	lineNo := 0

	flush := func() {
		if term.ID != "" {
			v.terms[term.ID] = term
		}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lineNoSpaces := strings.ReplaceAll(line, " ", "")
		lineNoSpaces = strings.ReplaceAll(lineNoSpaces, "\t", "")

		if strings.HasPrefix(lineNoSpaces, "[") {
			if strings.EqualFold(lineNoSpaces, "[term]") {
				inTerm = true
				flush()
				term = newTerm()
			} else {
				inTerm = false
			}
			continue
		}
		if !inTerm {
			continue
		}
		if err := parseTermLine(&term, line, lineNoSpaces, name); err != nil {
			progress.Logf("cvterm: %s line %d: %v", name, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.Parse, "reading OBO stream", err)
	}
	flush()

	v.resolveGraph()
	return v, nil
}

func parseTermLine(term *Term, line, compact, cvName string) error {
	colon := strings.Index(line, ":")
	switch {
	case strings.HasPrefix(compact, "id:"):
		term.ID = strings.TrimSpace(line[colon+1:])
	case strings.HasPrefix(compact, "name:"):
		term.Name = strings.TrimSpace(line[colon+1:])
	case strings.HasPrefix(compact, "is_a:"):
		parseIsA(term, line, colon)
	case strings.HasPrefix(compact, "relationship:DRV") && cvName == "brenda":
		parseRelationship(term, line, "DRV", true)
	case strings.HasPrefix(compact, "relationship:part_of") && cvName == "brenda":
		parseRelationship(term, line, "part_of", true)
	case strings.HasPrefix(compact, "relationship:has_units"):
		parseUnits(term, line)
	case strings.HasPrefix(compact, "def:"):
		term.Description = extractQuoted(line)
	case strings.HasPrefix(compact, "synonym:"):
		term.Synonyms = append(term.Synonyms, extractQuoted(line))
	case compact == "is_obsolete:true":
		term.Obsolete = true
	case strings.HasPrefix(compact, "xref:value-type") || strings.HasPrefix(compact, "xref_analog:value-type"):
		parseValueType(term, compact)
	case strings.HasPrefix(compact, "xref:binary-data-type") || strings.HasPrefix(compact, "xref_analog:binary-data-type"):
		parseBinaryDataType(term, line)
	default:
		term.Unparsed = append(term.Unparsed, line)
	}
	return nil
}

func parseIsA(term *Term, line string, colon int) {
	rest := strings.TrimSpace(line[colon+1:])
	if bang := strings.Index(rest, "!"); bang >= 0 {
		parentID := strings.TrimSpace(rest[:bang])
		term.Parents[parentID] = struct{}{}
	} else {
		term.Parents[rest] = struct{}{}
	}
}

func parseRelationship(term *Term, line, keyword string, isParent bool) {
	idx := strings.Index(line, keyword)
	if idx < 0 {
		return
	}
	rest := strings.TrimSpace(line[idx+len(keyword):])
	rest = strings.TrimPrefix(rest, ":")
	rest = strings.TrimSpace(rest)
	if bang := strings.Index(rest, "!"); bang >= 0 {
		rest = strings.TrimSpace(rest[:bang])
	}
	if isParent {
		term.Parents[rest] = struct{}{}
	}
}

func parseUnits(term *Term, line string) {
	idx := strings.Index(line, "has_units")
	if idx < 0 {
		return
	}
	rest := strings.TrimSpace(line[idx+len("has_units"):])
	rest = strings.TrimPrefix(rest, ":")
	rest = strings.TrimSpace(rest)
	if bang := strings.Index(rest, "!"); bang >= 0 {
		rest = strings.TrimSpace(rest[:bang])
	}
	term.Units[rest] = struct{}{}
}

func extractQuoted(line string) string {
	first := strings.Index(line, `"`)
	if first < 0 {
		return ""
	}
	rest := line[first+1:]
	second := strings.Index(rest, `"`)
	if second < 0 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:second])
}

func parseValueType(term *Term, compact string) {
	compact = strings.ReplaceAll(compact, `\`, "")
	switch {
	case strings.Contains(compact, "value-type:xsd:string"):
		term.XRefType = ValueTypeString
	case strings.Contains(compact, "value-type:xsd:integer"), strings.Contains(compact, "value-type:xsd:int"):
		term.XRefType = ValueTypeInteger
	case strings.Contains(compact, "value-type:xsd:decimal"), strings.Contains(compact, "value-type:xsd:float"), strings.Contains(compact, "value-type:xsd:double"):
		term.XRefType = ValueTypeDecimal
	case strings.Contains(compact, "value-type:xsd:negativeInteger"):
		term.XRefType = ValueTypeNegativeInteger
	case strings.Contains(compact, "value-type:xsd:positiveInteger"):
		term.XRefType = ValueTypePositiveInteger
	case strings.Contains(compact, "value-type:xsd:nonNegativeInteger"):
		term.XRefType = ValueTypeNonNegativeInteger
	case strings.Contains(compact, "value-type:xsd:nonPositiveInteger"):
		term.XRefType = ValueTypeNonPositiveInteger
	case strings.Contains(compact, "value-type:xsd:boolean"), strings.Contains(compact, "value-type:xsd:bool"):
		term.XRefType = ValueTypeBoolean
	case strings.Contains(compact, "value-type:xsd:date"):
		term.XRefType = ValueTypeDate
	case strings.Contains(compact, "value-type:xsd:anyURI"):
		term.XRefType = ValueTypeAnyURI
	default:
		progress.Logf("cvterm: unknown xsd type: %s, ignoring", compact)
	}
}

func parseBinaryDataType(term *Term, line string) {
	line = strings.ReplaceAll(line, `\`, "")
	if bang := strings.Index(line, "!"); bang >= 0 {
		line = line[:bang]
	}
	idx := strings.Index(line, "binary-data-type")
	if idx < 0 {
		return
	}
	rest := strings.TrimSpace(line[idx+len("binary-data-type"):])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	if rest == "" {
		return
	}
	term.XRefBinary = append(term.XRefBinary, rest)
}

// resolveGraph inverts parent links into child links and builds the
// name-to-id lookup, visiting terms in ascending id order: the first
// term to carry a name claims the plain name key, and each later term
// with the same name is registered under name+description instead
// (spec.md §4.3; matches the source's "name+description" fallback key).
func (v *Vocabulary) resolveGraph() {
	for id, t := range v.terms {
		for parentID := range t.Parents {
			if parent, ok := v.terms[parentID]; ok {
				parent.Children[id] = struct{}{}
				v.terms[parentID] = parent
			}
		}
	}
	ids := make([]string, 0, len(v.terms))
	for id := range v.terms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		t := v.terms[id]
		if _, collision := v.namesToIDs[t.Name]; !collision {
			v.namesToIDs[t.Name] = id
		} else {
			v.namesToIDs[t.Name+t.Description] = id
		}
	}
}

// GetTerm returns the term with the given id.
func (v *Vocabulary) GetTerm(id string) (Term, error) {
	t, ok := v.terms[id]
	if !ok {
		return Term{}, errs.New(errs.InvalidValue, fmt.Sprintf("invalid CV identifier %q", id))
	}
	return t, nil
}

// Terms returns every loaded term, keyed by id.
func (v *Vocabulary) Terms() map[string]Term { return v.terms }

// Exists reports whether id names a loaded term.
func (v *Vocabulary) Exists(id string) bool {
	_, ok := v.terms[id]
	return ok
}

// GetTermByName resolves a term by display name. When several terms
// share a name, the plain name resolves to the one that claimed it in
// resolveGraph; name+desc is tried only when no term is registered
// under the plain name.
func (v *Vocabulary) GetTermByName(name, desc string) (Term, error) {
	if id, ok := v.namesToIDs[name]; ok {
		return v.terms[id], nil
	}
	if desc != "" {
		if id, ok := v.namesToIDs[name+desc]; ok {
			return v.terms[id], nil
		}
	}
	return Term{}, errs.New(errs.InvalidValue, fmt.Sprintf("invalid CV name %q", name))
}

// GetAllChildTerms returns every descendant (not just direct children)
// of parent, via depth-first traversal. Each descendant is visited
// once, so a cycle in the child links does not cause endless recursion.
func (v *Vocabulary) GetAllChildTerms(parent string) ([]string, error) {
	if !v.Exists(parent) {
		return nil, errs.New(errs.InvalidValue, fmt.Sprintf("invalid CV identifier %q", parent))
	}
	seen := make(map[string]struct{})
	v.collectChildren(parent, seen)
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out, nil
}

func (v *Vocabulary) collectChildren(parent string, seen map[string]struct{}) {
	for childID := range v.terms[parent].Children {
		if _, ok := seen[childID]; ok {
			continue
		}
		seen[childID] = struct{}{}
		v.collectChildren(childID, seen)
	}
}

// IsChildOf reports whether child is a direct or transitive descendant
// of parent.
func (v *Vocabulary) IsChildOf(child, parent string) bool {
	t, ok := v.terms[child]
	if !ok {
		return false
	}
	for p := range t.Parents {
		if p == parent {
			return true
		}
		if v.IsChildOf(p, parent) {
			return true
		}
	}
	return false
}
