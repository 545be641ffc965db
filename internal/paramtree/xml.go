package paramtree

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/openms-go/mscore/internal/errs"
	"github.com/openms-go/mscore/internal/fsutil"
)

// xmlParameters is the <PARAMETERS> document shape, lossless enough to
// reconstruct a Tree (spec.md §4.4 XML round-trip), grounded on the
// element/attribute vocabulary ParamXMLHandler.cpp parses: NODE, ITEM,
// ITEMLIST, LISTITEM.
type xmlParameters struct {
	XMLName xml.Name  `xml:"PARAMETERS"`
	Version string    `xml:"version,attr,omitempty"`
	Nodes   []xmlNode `xml:"NODE"`
}

type xmlNode struct {
	Name        string     `xml:"name,attr"`
	Description string     `xml:"description,attr,omitempty"`
	Nodes       []xmlNode  `xml:"NODE"`
	Items       []xmlItem  `xml:"ITEM"`
	ItemLists   []xmlItemList `xml:"ITEMLIST"`
}

type xmlItem struct {
	Name         string `xml:"name,attr"`
	Type         string `xml:"type,attr"`
	Value        string `xml:"value,attr"`
	Description  string `xml:"description,attr,omitempty"`
	Tags         string `xml:"tags,attr,omitempty"`
	Restrictions string `xml:"restrictions,attr,omitempty"`
}

type xmlItemList struct {
	Name         string        `xml:"name,attr"`
	Type         string        `xml:"type,attr"`
	Description  string        `xml:"description,attr,omitempty"`
	Tags         string        `xml:"tags,attr,omitempty"`
	Restrictions string        `xml:"restrictions,attr,omitempty"`
	Items        []xmlListItem `xml:"LISTITEM"`
}

type xmlListItem struct {
	Value string `xml:"value,attr"`
}

// LoadXML reads a PARAMETERS document from fs at path and returns the
// equivalent Tree.
func LoadXML(fsys fsutil.FileSystem, path string) (*Tree, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.FileNotReadable, "reading parameter XML", err)
	}
	var doc xmlParameters
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.Parse, "parsing parameter XML", err)
	}
	t := New()
	for _, n := range doc.Nodes {
		decodeNode(t, "", n)
	}
	return t, nil
}

func decodeNode(t *Tree, prefix string, n xmlNode) {
	path := joinPath(prefix, n.Name)
	t.AddSection(path, n.Description)
	for _, child := range n.Nodes {
		decodeNode(t, path, child)
	}
	for _, item := range n.Items {
		decodeItem(t, path, item)
	}
	for _, list := range n.ItemLists {
		decodeItemList(t, path, list)
	}
}

func decodeItem(t *Tree, prefix string, item xmlItem) {
	path := joinPath(prefix, item.Name)
	tags := splitNonEmpty(item.Tags, ',')
	switch item.Type {
	case "int":
		v, _ := strconv.ParseInt(item.Value, 10, 64)
		t.SetInt(path, v, item.Description, tags...)
		applyIntRestriction(t, path, item.Restrictions)
	case "float", "double":
		v, _ := strconv.ParseFloat(item.Value, 64)
		t.SetFloat(path, v, item.Description, tags...)
		applyFloatRestriction(t, path, item.Restrictions)
	case "bool":
		t.SetString(path, item.Value, item.Description, tags...)
		_ = t.SetValidStrings(path, []string{"true", "false"})
	default: // string, input-file, output-file, output-prefix
		t.SetString(path, item.Value, item.Description, tags...)
		if item.Restrictions != "" {
			_ = t.SetValidStrings(path, splitNonEmpty(item.Restrictions, ','))
		}
	}
}

func decodeItemList(t *Tree, prefix string, list xmlItemList) {
	path := joinPath(prefix, list.Name)
	tags := splitNonEmpty(list.Tags, ',')
	switch list.Type {
	case "int":
		vals := make([]int64, len(list.Items))
		for i, li := range list.Items {
			vals[i], _ = strconv.ParseInt(li.Value, 10, 64)
		}
		t.SetIntList(path, vals, list.Description, tags...)
		applyIntRestriction(t, path, list.Restrictions)
	case "float", "double":
		vals := make([]float64, len(list.Items))
		for i, li := range list.Items {
			vals[i], _ = strconv.ParseFloat(li.Value, 64)
		}
		t.SetFloatList(path, vals, list.Description, tags...)
		applyFloatRestriction(t, path, list.Restrictions)
	default: // string
		vals := make([]string, len(list.Items))
		for i, li := range list.Items {
			vals[i] = li.Value
		}
		t.SetStringList(path, vals, list.Description, tags...)
		if list.Restrictions != "" {
			_ = t.SetValidStrings(path, splitNonEmpty(list.Restrictions, ','))
		}
	}
}

func applyIntRestriction(t *Tree, path, restriction string) {
	if restriction == "" {
		return
	}
	lo, hi, ok := splitRestriction(restriction)
	if !ok {
		return
	}
	if lo != "" {
		if v, err := strconv.ParseInt(lo, 10, 64); err == nil {
			_ = t.SetMinInt(path, v)
		}
	}
	if hi != "" {
		if v, err := strconv.ParseInt(hi, 10, 64); err == nil {
			_ = t.SetMaxInt(path, v)
		}
	}
}

func applyFloatRestriction(t *Tree, path, restriction string) {
	if restriction == "" {
		return
	}
	lo, hi, ok := splitRestriction(restriction)
	if !ok {
		return
	}
	if lo != "" {
		if v, err := strconv.ParseFloat(lo, 64); err == nil {
			_ = t.SetMinFloat(path, v)
		}
	}
	if hi != "" {
		if v, err := strconv.ParseFloat(hi, 64); err == nil {
			_ = t.SetMaxFloat(path, v)
		}
	}
}

// splitRestriction splits a "min:max" restriction string, falling back
// to "min-max" for pre-1.6.2 files (ParamXMLHandler's own downward
// compatibility rule).
func splitRestriction(restriction string) (lo, hi string, ok bool) {
	parts := strings.SplitN(restriction, ":", 2)
	if len(parts) != 2 {
		parts = strings.SplitN(restriction, "-", 2)
	}
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func splitNonEmpty(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, string(sep))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

// SaveXML writes t as a PARAMETERS document to fs at path.
func (t *Tree) SaveXML(fsys fsutil.FileSystem, path string) error {
	root := buildTreeXML(t)
	data, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return errs.Wrap(errs.IO, "marshaling parameter XML", err)
	}
	data = append([]byte(xml.Header), data...)
	if err := fsys.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.FileNotWritable, "writing parameter XML", err)
	}
	return nil
}

func buildTreeXML(t *Tree) xmlParameters {
	doc := xmlParameters{Version: "1.1"}
	roots := make(map[string]*xmlNode)
	var order []string

	getOrCreate := func(path string) *xmlNode {
		parts := strings.Split(path, ":")
		var parent *xmlNode
		cur := ""
		for i, part := range parts {
			cur = joinPath(cur, part)
			if i == 0 {
				if n, ok := roots[cur]; ok {
					parent = n
					continue
				}
				desc, _ := t.SectionDescription(cur)
				n := &xmlNode{Name: part, Description: desc}
				roots[cur] = n
				order = append(order, cur)
				parent = n
				continue
			}
			found := findChild(parent, part)
			if found == nil {
				desc, _ := t.SectionDescription(cur)
				child := xmlNode{Name: part, Description: desc}
				parent.Nodes = append(parent.Nodes, child)
				found = &parent.Nodes[len(parent.Nodes)-1]
			}
			parent = found
		}
		return parent
	}

	for _, path := range t.SortedPaths() {
		e := t.entries[path]
		idx := strings.LastIndex(path, ":")
		var parentPath string
		if idx >= 0 {
			parentPath = path[:idx]
		}
		var parent *xmlNode
		if parentPath == "" {
			// top-level entry: synthesize an implicit unnamed-root bucket
			// is not representable in NODE-rooted XML, so top-level
			// entries live directly under the document via a pseudo node
			// named after the entry itself is avoided: OpenMS parameter
			// files always nest entries at least one NODE deep, so this
			// path only arises for trees built without AddSection.
			parent = getOrCreate(path)
			appendEntryToNode(parent, e, "")
			continue
		}
		parent = getOrCreate(parentPath)
		appendEntryToNode(parent, e, e.Name[idx+1:])
	}

	for _, path := range order {
		doc.Nodes = append(doc.Nodes, *roots[path])
	}
	return doc
}

func findChild(n *xmlNode, name string) *xmlNode {
	for i := range n.Nodes {
		if n.Nodes[i].Name == name {
			return &n.Nodes[i]
		}
	}
	return nil
}

func appendEntryToNode(n *xmlNode, e Entry, leafName string) {
	if leafName == "" {
		leafName = e.Name
	}
	tags := strings.Join(e.Tags, ",")
	restriction := formatRestriction(e)
	switch e.Kind {
	case KindInt:
		n.Items = append(n.Items, xmlItem{Name: leafName, Type: "int", Value: strconv.FormatInt(e.IntValue, 10), Description: e.Description, Tags: tags, Restrictions: restriction})
	case KindFloat:
		n.Items = append(n.Items, xmlItem{Name: leafName, Type: "float", Value: strconv.FormatFloat(e.FloatValue, 'g', -1, 64), Description: e.Description, Tags: tags, Restrictions: restriction})
	case KindString:
		n.Items = append(n.Items, xmlItem{Name: leafName, Type: "string", Value: e.StringValue, Description: e.Description, Tags: tags, Restrictions: strings.Join(e.Restriction.ValidString, ",")})
	case KindIntList:
		items := make([]xmlListItem, len(e.IntList))
		for i, v := range e.IntList {
			items[i] = xmlListItem{Value: strconv.FormatInt(v, 10)}
		}
		n.ItemLists = append(n.ItemLists, xmlItemList{Name: leafName, Type: "int", Description: e.Description, Tags: tags, Restrictions: restriction, Items: items})
	case KindFloatList:
		items := make([]xmlListItem, len(e.FloatList))
		for i, v := range e.FloatList {
			items[i] = xmlListItem{Value: strconv.FormatFloat(v, 'g', -1, 64)}
		}
		n.ItemLists = append(n.ItemLists, xmlItemList{Name: leafName, Type: "float", Description: e.Description, Tags: tags, Restrictions: restriction, Items: items})
	case KindStringList:
		items := make([]xmlListItem, len(e.StringList))
		for i, v := range e.StringList {
			items[i] = xmlListItem{Value: v}
		}
		n.ItemLists = append(n.ItemLists, xmlItemList{Name: leafName, Type: "string", Description: e.Description, Tags: tags, Restrictions: strings.Join(e.Restriction.ValidString, ","), Items: items})
	}
}

func formatRestriction(e Entry) string {
	if !e.Restriction.HasMin && !e.Restriction.HasMax {
		return ""
	}
	lo, hi := "", ""
	if e.Restriction.HasMin {
		lo = strconv.FormatFloat(e.Restriction.Min, 'g', -1, 64)
	}
	if e.Restriction.HasMax {
		hi = strconv.FormatFloat(e.Restriction.Max, 'g', -1, 64)
	}
	return lo + ":" + hi
}
