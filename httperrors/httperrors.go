// Package httperrors projects the response surface of an API into a compact
// error summary: one row per (status, error code, message) combination found
// in response schemas and examples. Unlike the full data dictionary this is
// a shallow projection aimed at support and integration teams who need "what
// can this API return" on one page.
package httperrors

import (
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/erraggy/oasdict/dictionary"
	"github.com/erraggy/oasdict/dicterrors"
	"github.com/erraggy/oasdict/parser"
)

// Row is one line of the error summary.
type Row struct {
	Status      string
	ErrorCode   string
	Description string
	EnumValues  string
	Method      string
	Path        string
}

// jsonMediaCandidates are the media types inspected for error payloads, in
// preference order. When none match, the first declared media type carrying
// a schema is used.
var jsonMediaCandidates = []string{
	"application/json",
	"application/problem+json",
	"application/vnd.api+json",
	"text/json",
}

// codeKeys are the property names conventionally carrying an error code.
var codeKeys = map[string]bool{
	"code":        true,
	"errorCode":   true,
	"error_code":  true,
	"statusCode":  true,
	"status_code": true,
}

// messageKeys are the property names conventionally carrying a human message.
var messageKeys = map[string]bool{
	"message":     true,
	"error":       true,
	"reason":      true,
	"detail":      true,
	"description": true,
}

// Option configures a Compile call.
type Option func(*options)

type options struct {
	groupByStatus bool
	logger        parser.Logger
}

// WithGroupByStatus collapses the summary to one row per HTTP status, with
// codes, descriptions, and enum values aggregated.
func WithGroupByStatus() Option {
	return func(o *options) { o.groupByStatus = true }
}

// WithLogger sets the logger used during compilation. Defaults to no-op.
func WithLogger(logger parser.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Compile walks every operation response in the document and extracts the
// error summary rows, de-duplicated and deterministically sorted.
func Compile(doc *parser.Document, opts ...Option) ([]Row, error) {
	if doc == nil {
		return nil, &dicterrors.ConfigError{Option: "document", Message: "document must not be nil"}
	}
	o := options{logger: parser.NopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}

	c := &compiler{res: dictionary.NewResolver(doc), logger: o.logger}

	var rows []Row
	for _, path := range sortedKeys(doc.Paths) {
		item := doc.Paths[path]
		if item == nil {
			continue
		}
		for _, method := range parser.Methods {
			op := item.OperationFor(method)
			if op == nil {
				continue
			}
			rows = append(rows, c.operationRows(strings.ToUpper(method), path, op)...)
		}
	}

	rows = dedupe(rows)
	sortRows(rows)
	if o.groupByStatus {
		rows = groupByStatus(rows)
	}
	return rows, nil
}

type compiler struct {
	res    *dictionary.Resolver
	logger parser.Logger
}

func (c *compiler) operationRows(method, path string, op *parser.Operation) []Row {
	var rows []Row
	for _, status := range sortedKeys(op.Responses) {
		resp, err := c.res.ResolveResponse(op.Responses[status])
		if err != nil || resp == nil {
			c.logger.Debug("skipping unresolvable response", "method", method, "path", path, "status", status)
			continue
		}

		pairs, enums := c.extractResponse(resp)
		enumText := strings.Join(enums, ", ")

		if len(pairs) == 0 {
			desc := "No detail found in schema/examples"
			if isSuccess(status) {
				desc = "Success"
			}
			rows = append(rows, Row{
				Status: status, Description: desc, EnumValues: enumText,
				Method: method, Path: path,
			})
			continue
		}
		for _, p := range pairs {
			rows = append(rows, Row{
				Status: status, ErrorCode: p.code, Description: p.message,
				EnumValues: enumText, Method: method, Path: path,
			})
		}
	}
	return rows
}

type codeMessage struct {
	code    string
	message string
}

// extractResponse inspects the response's JSON-ish payload for error codes,
// messages, and declared enum values.
func (c *compiler) extractResponse(resp *parser.Response) ([]codeMessage, []string) {
	mt := findJSONContent(resp)
	if mt == nil {
		return nil, nil
	}

	var pairs []codeMessage
	if ex, ok := mt.Example.(map[string]any); ok {
		code := firstText(ex, codeKeys)
		msg := firstText(ex, messageKeys)
		if code != "" || msg != "" {
			pairs = append(pairs, codeMessage{code, msg})
		}
	}

	if mt.Schema != nil {
		codes, messages, enums := c.extractSchema(mt.Schema)
		pairs = append(pairs, zip(codes, messages)...)
		return dedupePairs(pairs), enums
	}
	return dedupePairs(pairs), nil
}

// extractSchema collects error codes, messages, and enum values from every
// object fragment reachable from the schema. Reference cycles are cut by
// node identity, so the collection always terminates.
func (c *compiler) extractSchema(s *parser.Schema) (codes, messages, enums []string) {
	for _, frag := range c.fragments(s, map[*parser.Schema]bool{}) {
		for _, name := range sortedKeys(frag.Properties) {
			prop := c.deref(frag.Properties[name])
			if prop == nil {
				continue
			}
			if codeKeys[name] {
				for _, v := range prop.Enum {
					enums = appendUnique(enums, toText(v))
				}
				if t := toText(prop.Example); t != "" {
					codes = appendUnique(codes, t)
				} else if t := toText(prop.Default); t != "" {
					codes = appendUnique(codes, t)
				}
			}
			if messageKeys[name] {
				for _, v := range []any{prop.Example, prop.Default, prop.Description} {
					if t, ok := v.(string); ok && strings.TrimSpace(t) != "" {
						messages = appendUnique(messages, strings.TrimSpace(t))
						break
					}
				}
			}
		}
		if d := strings.TrimSpace(frag.Description); d != "" {
			messages = appendUnique(messages, d)
		}
	}
	sort.Slice(enums, func(i, j int) bool { return smartLess(enums[i], enums[j]) })
	return codes, messages, enums
}

// fragments gathers every distinct object-shaped node reachable from s:
// the node itself, composition branches, array items, and object-valued
// properties, with references resolved.
func (c *compiler) fragments(s *parser.Schema, seen map[*parser.Schema]bool) []*parser.Schema {
	s = c.deref(s)
	if s == nil || seen[s] {
		return nil
	}
	seen[s] = true

	out := []*parser.Schema{s}
	if s.Items != nil {
		out = append(out, c.fragments(s.Items, seen)...)
	}
	for _, group := range [][]*parser.Schema{s.AllOf, s.OneOf, s.AnyOf} {
		for _, sub := range group {
			out = append(out, c.fragments(sub, seen)...)
		}
	}
	for _, name := range sortedKeys(s.Properties) {
		prop := s.Properties[name]
		if prop == nil {
			continue
		}
		typ, _ := prop.TypeString()
		if prop.Ref != "" || typ == "object" || typ == "array" {
			out = append(out, c.fragments(prop, seen)...)
		}
	}
	return out
}

// deref resolves a node's reference chain, returning nil when it cannot be
// resolved. Broken pointers simply contribute nothing to the summary.
func (c *compiler) deref(s *parser.Schema) *parser.Schema {
	if s == nil || s.Ref == "" {
		return s
	}
	resolved, _, err := c.res.Resolve(s, map[string]bool{})
	if err != nil {
		c.logger.Debug("skipping unresolvable schema", "ref", s.Ref)
		return nil
	}
	return resolved
}

// findJSONContent picks the media type block to inspect: the JSON-ish
// candidates in preference order, then any declared media with a schema.
func findJSONContent(resp *parser.Response) *parser.MediaType {
	if len(resp.Content) == 0 {
		return nil
	}
	for _, mt := range jsonMediaCandidates {
		if block, ok := resp.Content[mt]; ok && block != nil {
			return block
		}
	}
	for _, name := range sortedKeys(resp.Content) {
		if block := resp.Content[name]; block != nil && block.Schema != nil {
			return block
		}
	}
	return nil
}

// zip pairs codes with messages: equal-length lists pair positionally,
// otherwise every code takes the first message and surplus messages become
// code-less rows.
func zip(codes, messages []string) []codeMessage {
	var pairs []codeMessage
	switch {
	case len(codes) > 0 && len(messages) == len(codes):
		for i := range codes {
			pairs = append(pairs, codeMessage{codes[i], messages[i]})
		}
	case len(codes) > 0:
		first := ""
		if len(messages) > 0 {
			first = messages[0]
		}
		for _, code := range codes {
			pairs = append(pairs, codeMessage{code, first})
		}
		for _, m := range messages[min(1, len(messages)):] {
			pairs = append(pairs, codeMessage{"", m})
		}
	default:
		for _, m := range messages {
			pairs = append(pairs, codeMessage{"", m})
		}
	}
	return pairs
}

func dedupePairs(pairs []codeMessage) []codeMessage {
	seen := map[codeMessage]bool{}
	out := pairs[:0]
	for _, p := range pairs {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func dedupe(rows []Row) []Row {
	seen := map[Row]bool{}
	out := rows[:0]
	for _, r := range rows {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// sortRows orders rows by numeric status first, then status text, code,
// description, method, and path.
func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		an, aerr := strconv.Atoi(a.Status)
		bn, berr := strconv.Atoi(b.Status)
		switch {
		case aerr == nil && berr == nil && an != bn:
			return an < bn
		case aerr == nil && berr != nil:
			return true
		case aerr != nil && berr == nil:
			return false
		}
		if a.Status != b.Status {
			return a.Status < b.Status
		}
		if a.ErrorCode != b.ErrorCode {
			return a.ErrorCode < b.ErrorCode
		}
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.Path < b.Path
	})
}

// groupByStatus collapses sorted rows to one row per status. Method and
// path are dropped because a status aggregates across operations.
func groupByStatus(rows []Row) []Row {
	type bucket struct {
		codes []string
		descs []string
		enums []string
	}
	buckets := map[string]*bucket{}
	var order []string
	for _, r := range rows {
		b, ok := buckets[r.Status]
		if !ok {
			b = &bucket{}
			buckets[r.Status] = b
			order = append(order, r.Status)
		}
		if r.ErrorCode != "" {
			b.codes = appendUnique(b.codes, r.ErrorCode)
		}
		if r.Description != "" {
			b.descs = appendUnique(b.descs, r.Description)
		}
		for _, v := range strings.Split(r.EnumValues, ",") {
			if v = strings.TrimSpace(v); v != "" {
				b.enums = appendUnique(b.enums, v)
			}
		}
	}

	out := make([]Row, 0, len(order))
	for _, status := range order {
		b := buckets[status]
		sort.Slice(b.codes, func(i, j int) bool { return smartLess(b.codes[i], b.codes[j]) })
		sort.Slice(b.enums, func(i, j int) bool { return smartLess(b.enums[i], b.enums[j]) })
		sort.Strings(b.descs)
		out = append(out, Row{
			Status:      status,
			ErrorCode:   strings.Join(b.codes, ", "),
			Description: strings.Join(b.descs, "; "),
			EnumValues:  strings.Join(b.enums, ", "),
		})
	}
	return out
}

// smartLess orders numeric values numerically before non-numeric values
// lexically, so "42" sorts before "400" and both before "E_TIMEOUT".
func smartLess(a, b string) bool {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return an < bn
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}

func isSuccess(status string) bool {
	n, err := strconv.Atoi(status)
	return err == nil && n >= 200 && n < 300
}

// firstText returns the first non-empty string or integer value under any
// of the given keys.
func firstText(obj map[string]any, keys map[string]bool) string {
	for _, k := range sortedKeys(obj) {
		if !keys[k] {
			continue
		}
		if t := toText(obj[k]); t != "" {
			return t
		}
	}
	return ""
}

// toText renders a scalar for a summary cell. Strings pass through,
// numbers format naturally, anything else renders as JSON.
func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
