package driver

import (
	"testing"
)

func TestSelectorCompilation(t *testing.T) {
	cases := []struct {
		name string
		loc  Locator
		want string
	}{
		{
			name: "text",
			loc:  ByText("点击上传"),
			want: "//*[contains(text(), '点击上传')]",
		},
		{
			name: "text last",
			loc:  ByText("选择音乐").Last(),
			want: "(//*[contains(text(), '选择音乐')])[last()]",
		},
		{
			name: "tagged text with exclusion",
			loc:  ByText("发布").Tag("button").Excluding("高清"),
			want: "//button[contains(., '发布')][not(contains(., '高清'))]",
		},
		{
			name: "tagged text with class hint",
			loc:  ByText("使用").Tag("button").HavingClass("primary"),
			want: "//button[contains(., '使用')][contains(@class, 'primary')]",
		},
		{
			name: "placeholder",
			loc:  ByPlaceholder("添加作品标题"),
			want: "//*[@placeholder='添加作品标题']",
		},
		{
			name: "attribute pattern",
			loc:  ByAttr("class", "option"),
			want: "//*[contains(@class, 'option')]",
		},
		{
			name: "role",
			loc:  ByRole("button"),
			want: "//*[@role='button']",
		},
		{
			name: "scoped",
			loc:  ByText("使用").Within(ByAttr("class", "sidesheet")),
			want: "//*[contains(@class, 'sidesheet')]//*[contains(text(), '使用')]",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.loc.Selector(); got != tc.want {
				t.Fatalf("Selector() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestXPathQuote(t *testing.T) {
	if got := xpathQuote("plain"); got != "'plain'" {
		t.Fatalf("plain: %q", got)
	}
	if got := xpathQuote("it's"); got != `"it's"` {
		t.Fatalf("apostrophe: %q", got)
	}
	if got := xpathQuote(`a'b"c`); got != `concat('a', "'", 'b"c')` {
		t.Fatalf("mixed quotes: %q", got)
	}
}

func TestMatchesElementPicksSafeSubmitButton(t *testing.T) {
	submit := ByText("发布").Tag("button").Excluding("高清")
	plain := Element{Tag: "button", Text: "发布"}
	hd := Element{Tag: "button", Text: "高清发布"}

	if !submit.MatchesElement(plain) {
		t.Fatal("expected the plain publish button to match")
	}
	if submit.MatchesElement(hd) {
		t.Fatal("HD variant must never match the submit locator")
	}
}

func TestMatchesElement(t *testing.T) {
	cases := []struct {
		name string
		loc  Locator
		el   Element
		want bool
	}{
		{
			name: "placeholder exact",
			loc:  ByPlaceholder("添加作品标题"),
			el:   Element{Tag: "input", Attrs: map[string]string{"placeholder": "添加作品标题"}},
			want: true,
		},
		{
			name: "placeholder is not substring matched",
			loc:  ByPlaceholder("标题"),
			el:   Element{Tag: "input", Attrs: map[string]string{"placeholder": "添加作品标题"}},
			want: false,
		},
		{
			name: "attr pattern is substring matched",
			loc:  ByAttr("placeholder", "标题"),
			el:   Element{Tag: "input", Attrs: map[string]string{"placeholder": "添加作品标题"}},
			want: true,
		},
		{
			name: "class fragment",
			loc:  ByAttr("class", "sidesheet"),
			el:   Element{Tag: "div", Attrs: map[string]string{"class": "douyin-sidesheet-7f3a"}},
			want: true,
		},
		{
			name: "tag filters",
			loc:  ByText("发布").Tag("button"),
			el:   Element{Tag: "a", Text: "发布"},
			want: false,
		},
		{
			name: "class hint filters",
			loc:  ByText("使用").Tag("button").HavingClass("primary"),
			el:   Element{Tag: "button", Text: "使用", Attrs: map[string]string{"class": "btn-secondary"}},
			want: false,
		},
		{
			name: "role",
			loc:  ByRole("textbox"),
			el:   Element{Tag: "div", Attrs: map[string]string{"role": "textbox"}},
			want: true,
		},
		{
			name: "scoped lookup matches on leaf",
			loc:  ByText("使用").Within(ByAttr("class", "sidesheet")),
			el:   Element{Tag: "div", Text: "使用"},
			want: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.loc.MatchesElement(tc.el); got != tc.want {
				t.Fatalf("MatchesElement() = %v, want %v", got, tc.want)
			}
		})
	}
}
