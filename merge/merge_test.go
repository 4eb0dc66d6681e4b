package merge

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/transl/lockfile"
	"github.com/minios-linux/transl/phpfile"
)

const refSrc = `<?php
return [
    Transl::GREETING => '你好',
    Transl::FAREWELL => '再见',
    Transl::THANKS => '谢谢',
];
`

func parse(s string) *phpfile.File {
	return phpfile.Parse([]byte(s), "Transl")
}

func TestCompare(t *testing.T) {
	ref := parse(refSrc)
	target := parse(`<?php
return [
    Transl::FAREWELL => 'Goodbye',
    Transl::THANKS => '',
    Transl::OLD => 'Old key',
    Transl::OLD_EMPTY => '',
];
`)

	d := Compare(ref, target)

	if want := []string{"GREETING"}; !reflect.DeepEqual(d.Missing, want) {
		t.Errorf("Missing = %v, want %v", d.Missing, want)
	}
	if want := []string{"THANKS", "OLD_EMPTY"}; !reflect.DeepEqual(d.Empty, want) {
		t.Errorf("Empty = %v, want %v", d.Empty, want)
	}
	if want := []string{"OLD", "OLD_EMPTY"}; !reflect.DeepEqual(d.Obsolete, want) {
		t.Errorf("Obsolete = %v, want %v", d.Obsolete, want)
	}

	want := []Item{
		{Key: "GREETING", Source: "你好", Missing: true},
		{Key: "THANKS", Source: "谢谢"},
	}
	if !reflect.DeepEqual(d.Untranslated, want) {
		t.Errorf("Untranslated = %+v, want %+v", d.Untranslated, want)
	}

	for _, k := range d.Missing {
		if target.Has(k) {
			t.Errorf("missing key %s is present in target", k)
		}
	}
}

func TestCompare_TranslatedNotFlagged(t *testing.T) {
	ref := parse(`Transl::GREETING => '你好',`)
	target := parse(`Transl::GREETING => '你好吗',`)

	d := Compare(ref, target)
	if len(d.Untranslated) != 0 || len(d.Missing) != 0 {
		t.Fatalf("translated key flagged: %+v", d)
	}
}

func TestCompare_EmptyTarget(t *testing.T) {
	ref := parse(refSrc)
	d := Compare(ref, phpfile.New("Transl"))

	if !reflect.DeepEqual(d.Missing, ref.Keys()) {
		t.Fatalf("Missing = %v, want all reference keys %v", d.Missing, ref.Keys())
	}
	if got := len(d.MissingItems()); got != 3 {
		t.Fatalf("MissingItems() len = %d, want 3", got)
	}
}

func TestPatch(t *testing.T) {
	ref := parse(`Transl::GREETING => '你好',`)
	target := "<?php\nreturn [\n    Transl::OTHER => 'x',\n];\n"

	d := Compare(ref, parse(target))
	out, err := Patch([]byte(target), "Transl", d.Untranslated)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}

	want := "<?php\nreturn [\n    Transl::OTHER => 'x',\n    Transl::GREETING => '', // 你好\n];\n"
	if string(out) != want {
		t.Fatalf("Patch() =\n%s\nwant\n%s", out, want)
	}

	patched := parse(string(out))
	for _, k := range d.Missing {
		if v, ok := patched.Get(k); !ok || v != "" {
			t.Errorf("patched %s = (%q, %v), want empty value present", k, v, ok)
		}
	}
}

func TestPatch_UsesLastClosingMarker(t *testing.T) {
	target := "<?php\nreturn [\n    Transl::LIST => ['a'],\n    'nested' => [1, 2];\n];\n"
	items := []Item{{Key: "NEW", Source: "新", Missing: true}}

	out, err := Patch([]byte(target), "Transl", items)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if !strings.HasSuffix(string(out), "    Transl::NEW => '', // 新\n];\n") {
		t.Fatalf("entry not inserted before last marker:\n%s", out)
	}
	if !strings.HasPrefix(string(out), target[:strings.LastIndex(target, "];")]) {
		t.Fatalf("text before marker changed:\n%s", out)
	}
}

func TestPatch_NoNewlineBeforeMarker(t *testing.T) {
	out, err := Patch([]byte("return [Transl::A => 'a',];"), "Transl", []Item{{Key: "B", Source: "b", Missing: true}})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	want := "return [Transl::A => 'a',\n    Transl::B => '', // b\n];"
	if string(out) != want {
		t.Fatalf("Patch() = %q, want %q", out, want)
	}
}

func TestPatch_NoMarker(t *testing.T) {
	_, err := Patch([]byte("<?php return array();"), "Transl", []Item{{Key: "A", Missing: true}})
	if !errors.Is(err, ErrNoClosingMarker) {
		t.Fatalf("Patch() error = %v, want ErrNoClosingMarker", err)
	}
}

func TestPatch_NothingMissing(t *testing.T) {
	data := []byte("no marker here")
	out, err := Patch(data, "Transl", []Item{{Key: "EMPTY_ONLY", Source: "x"}})
	if err != nil {
		t.Fatalf("Patch with only empty items: %v", err)
	}
	if string(out) != string(data) {
		t.Fatalf("Patch changed data without missing items: %q", out)
	}
}

func TestPatch_MultilineSourceComment(t *testing.T) {
	out, err := Patch([]byte("[\n];"), "Transl", []Item{{Key: "A", Source: "第一行\n第二行", Missing: true}})
	if err != nil {
		t.Fatal(err)
	}
	if want := "[\n    Transl::A => '', // 第一行 第二行\n];"; string(out) != want {
		t.Fatalf("Patch() = %q, want %q", out, want)
	}
}

func TestOutdated(t *testing.T) {
	ref := parse(`Transl::A => '新的', Transl::B => '不变', Transl::C => '空',`)
	target := parse(`Transl::A => 'old', Transl::B => 'same', Transl::C => '',`)

	lock, err := lockfile.Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	lock.Update("en/app.php", "A", "旧的")
	lock.Update("en/app.php", "B", "不变")
	lock.Update("en/app.php", "C", "原来")

	got := Outdated(ref, target, lock, "en/app.php")
	if want := []string{"A"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Outdated() = %v, want %v", got, want)
	}

	if got := Outdated(ref, target, nil, "en/app.php"); len(got) != 0 {
		t.Fatalf("Outdated(nil lock) = %v, want none", got)
	}
}

func TestMissingComma(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"trailing comma", "return [\n    Transl::A => 'a',\n];\n", false},
		{"comma then comment", "return [\n    Transl::A => '', // 甲\n];\n", false},
		{"no comma", "return [\n    Transl::A => 'a'\n];\n", true},
		{"no comma before comment", "return [\n    Transl::A => 'a' // 甲\n];\n", true},
		{"no entries", "return [\n];\n", false},
		{"no marker", "return array(\n    Transl::A => 'a'\n);\n", false},
	}
	for _, tc := range tests {
		if got := MissingComma([]byte(tc.data), "Transl"); got != tc.want {
			t.Errorf("%s: MissingComma() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
