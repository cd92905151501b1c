// Package semiauto extracts human-review items from findings automation
// could not fully resolve, generates the review questions, and tracks
// reviewer answers.
package semiauto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/a11yscan/internal/finding"
	"github.com/jonesrussell/a11yscan/internal/logger"
	"github.com/jonesrussell/a11yscan/internal/wcag"
)

// maxInnerTextLen caps the inner-text part of a generated element
// description.
const maxInnerTextLen = 50

// Item is one reviewable (finding, node) pair. Answer and AnsweredAt are
// the only mutable fields; RecordAnswer is the only writer.
type Item struct {
	ID                 string       `json:"id"`
	RuleID             string       `json:"ruleId"`
	Category           Category     `json:"category"`
	WCAGCriteria       []string     `json:"wcagCriteria"`
	Question           string       `json:"question"`
	HTML               string       `json:"html"`
	ElementDescription string       `json:"elementDescription"`
	Selector           string       `json:"selector"`
	Screenshot         string       `json:"screenshot,omitempty"`
	Answer             *wcag.Answer `json:"answer,omitempty"`
	AnsweredAt         *time.Time   `json:"answeredAt,omitempty"`
}

// Progress counts answered items.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Options selects which categories produce items.
type Options struct {
	// EnabledCategories toggles extraction per category. A nil map
	// enables everything.
	EnabledCategories map[Category]bool
}

func (o Options) enabled(c Category) bool {
	if o.EnabledCategories == nil {
		return true
	}
	return o.EnabledCategories[c]
}

// Extractor owns the semi-auto items of one analysis session. Callers
// serialize access; the internal lock only guards against accidental
// concurrent answer recording.
type Extractor struct {
	opts   Options
	logger logger.Interface

	mu    sync.Mutex
	items []*Item
	index map[string]*Item
}

// NewExtractor creates an extractor with the given options.
func NewExtractor(opts Options, log logger.Interface) *Extractor {
	return &Extractor{
		opts:   opts,
		logger: log.WithComponent("semiauto"),
		index:  make(map[string]*Item),
	}
}

// ExtractItems walks the merged violations and incomplete findings and
// creates one item per (finding, node) pair whose rule maps to an enabled
// category. Findings without nodes, without a mapped category, or with a
// disabled category are silently skipped. Item ids are deterministic, so
// re-extraction within a session keeps existing items (and their answers)
// stable. The returned slice is a value snapshot; later answers do not
// show through it.
func (e *Extractor) ExtractItems(violations, incomplete []finding.Finding) []Item {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, bucket := range [][]finding.Finding{violations, incomplete} {
		for i := range bucket {
			e.extractFromFinding(&bucket[i])
		}
	}

	e.logger.Debug("semi-auto extraction finished", "items", len(e.items))
	return e.itemsLocked()
}

func (e *Extractor) extractFromFinding(f *finding.Finding) {
	category, ok := CategoryForRule(f.ID)
	if !ok || !e.opts.enabled(category) {
		return
	}

	for j := range f.Nodes {
		node := &f.Nodes[j]
		id := itemID(f.ID, node.Target, j)
		if _, exists := e.index[id]; exists {
			continue
		}

		item := &Item{
			ID:                 id,
			RuleID:             f.ID,
			Category:           category,
			WCAGCriteria:       append([]string(nil), f.WCAGCriteria...),
			Question:           buildQuestion(category, node.HTML),
			HTML:               node.HTML,
			ElementDescription: describeElement(node),
			Selector:           node.Target,
			Screenshot:         node.ElementScreenshot,
		}
		e.items = append(e.items, item)
		e.index[id] = item
	}
}

// RecordAnswer stores a reviewer verdict on an item, overwriting any
// earlier answer and stamping the answer time. An unknown id is a no-op.
func (e *Extractor) RecordAnswer(id string, answer wcag.Answer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.index[id]
	if !ok {
		e.logger.Debug("answer for unknown item ignored", "item_id", id)
		return
	}

	now := time.Now()
	item.Answer = &answer
	item.AnsweredAt = &now
}

// GetProgress reports how many items have an answer.
func (e *Extractor) GetProgress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := Progress{Total: len(e.items)}
	for _, item := range e.items {
		if item.Answer != nil {
			p.Completed++
		}
	}
	return p
}

// Items returns a value snapshot of the current items in extraction
// order. Snapshots are safe to serialize while answers keep being
// recorded.
func (e *Extractor) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.itemsLocked()
}

// Answers converts every answered item into coverage input.
func (e *Extractor) Answers() []wcag.SemiAutoAnswer {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []wcag.SemiAutoAnswer
	for _, item := range e.items {
		if item.Answer == nil {
			continue
		}
		out = append(out, wcag.SemiAutoAnswer{
			WCAGCriteria: append([]string(nil), item.WCAGCriteria...),
			Answer:       *item.Answer,
		})
	}
	return out
}

// Clear resets the extractor between analyses.
func (e *Extractor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = nil
	e.index = make(map[string]*Item)
}

// itemsLocked copies the items so callers never hold pointers RecordAnswer
// writes to. Answer/AnsweredAt pointees are never mutated, only replaced,
// so the shallow copy is a consistent snapshot.
func (e *Extractor) itemsLocked() []Item {
	out := make([]Item, len(e.items))
	for i, item := range e.items {
		out[i] = *item
	}
	return out
}

// itemID derives a stable identifier for one (rule, node) pair. Repeated
// extraction in the same session produces the same id, so answers are
// idempotent overwrites.
func itemID(ruleID, target string, nodeIndex int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", ruleID, target, nodeIndex)))
	return "sa-" + hex.EncodeToString(h[:])[:12]
}

// buildQuestion fills the category's question template, interpolating the
// alt value extracted from the node HTML where the template needs one.
func buildQuestion(category Category, html string) string {
	switch category {
	case CategoryAltText:
		alt, ok := extractAttr(html, "alt")
		if !ok || strings.TrimSpace(alt) == "" {
			return questionAltTextEmpty
		}
		return fmt.Sprintf(questionAltText, alt)
	case CategoryLinkText:
		return questionLinkText
	case CategoryHeading:
		return questionHeading
	case CategoryFocusVisibility:
		return questionFocus
	default:
		return ""
	}
}

// describeElement prefers the node's own description and otherwise builds
// one from the parsed tag name and truncated inner text.
func describeElement(node *finding.NodeInfo) string {
	if node.ElementDescription != "" {
		return node.ElementDescription
	}

	tag, text := parseFragment(node.HTML)
	if tag == "" {
		return node.Target
	}

	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > maxInnerTextLen {
		text = string(runes[:maxInnerTextLen]) + "..."
	}
	if text == "" {
		return fmt.Sprintf("<%s> 要素", tag)
	}
	return fmt.Sprintf("<%s> 要素「%s」", tag, text)
}

// parseFragment extracts the first element's tag name and inner text from
// an HTML excerpt.
func parseFragment(html string) (tag, text string) {
	if strings.TrimSpace(html) == "" {
		return "", ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", ""
	}
	sel := doc.Find("body").Children().First()
	if sel.Length() == 0 {
		return "", ""
	}
	return goquery.NodeName(sel), strings.TrimSpace(sel.Text())
}

// extractAttr pulls one attribute off the first element of an HTML
// excerpt.
func extractAttr(html, attr string) (string, bool) {
	if strings.TrimSpace(html) == "" {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}
	sel := doc.Find("body").Children().First()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Attr(attr)
}
