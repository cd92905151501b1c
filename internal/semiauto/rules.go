package semiauto

// Category groups reviewable rules by the kind of human judgement they
// need.
type Category string

const (
	CategoryAltText         Category = "alt-text"
	CategoryLinkText        Category = "link-text"
	CategoryHeading         Category = "heading"
	CategoryFocusVisibility Category = "focus-visibility"
)

// AllCategories lists every reviewable category.
var AllCategories = []Category{
	CategoryAltText,
	CategoryLinkText,
	CategoryHeading,
	CategoryFocusVisibility,
}

// ruleCategories maps engine rule ids onto reviewable categories. Rules
// absent from this table never produce semi-auto items. The ids come from
// the wrapped checkers; several engines report the same concern under
// different names.
var ruleCategories = map[string]Category{
	// Image alternative text
	"image-alt":           CategoryAltText,
	"input-image-alt":     CategoryAltText,
	"area-alt":            CategoryAltText,
	"object-alt":          CategoryAltText,
	"role-img-alt":        CategoryAltText,
	"svg-img-alt":         CategoryAltText,
	"img_alt_valid":       CategoryAltText,
	"image-redundant-alt": CategoryAltText,

	// Link text
	"link-name":      CategoryLinkText,
	"empty-link":     CategoryLinkText,
	"a_text_purpose": CategoryLinkText,
	"link-text":      CategoryLinkText,

	// Headings
	"empty-heading":          CategoryHeading,
	"heading-order":          CategoryHeading,
	"page-has-heading-one":   CategoryHeading,
	"heading_content_exists": CategoryHeading,

	// Focus visibility
	"focus-visible":            CategoryFocusVisibility,
	"focus-order-semantics":    CategoryFocusVisibility,
	"element_tabbable_visible": CategoryFocusVisibility,
}

// CategoryForRule returns the reviewable category of a rule id.
func CategoryForRule(ruleID string) (Category, bool) {
	c, ok := ruleCategories[ruleID]
	return c, ok
}

// Question templates per category. The alt-text templates interpolate the
// extracted alt value.
const (
	questionAltText      = "この画像の代替テキスト「%s」は画像の内容を適切に表していますか？"
	questionAltTextEmpty = "この画像に代替テキストが必要ですか？装飾目的であれば空のままで問題ありません。"
	questionLinkText     = "このリンクのテキストはリンク先の内容を適切に表していますか？"
	questionHeading      = "この見出しはセクションの内容を適切に表していますか？"
	questionFocus        = "この要素にキーボードフォーカスを当てたとき、フォーカスが視覚的に確認できますか？"
)
