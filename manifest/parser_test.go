package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeTempManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "resources.manifest")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse(t *testing.T) {
	t.Parallel()

	Convey("Parse", t, func() {
		ctx := context.Background()

		Convey("reads sections and entries in order", func() {
			path := writeTempManifest(t, ""+
				"; a comment\n"+
				"[graphics]\n"+
				"sprite1 = assets/sprite1.png\n"+
				"sprite2 = assets/sprite2.png\n"+
				"\n"+
				"[sound]\n"+
				"click = assets/click.wav\n")

			m, err := Parse(ctx, path)
			So(err, ShouldBeNil)
			So(m.Sections.Keys(), ShouldResemble, []string{"graphics", "sound"})

			gfx, ok := m.Sections.Get("graphics")
			So(ok, ShouldBeTrue)
			So(gfx.Meta, ShouldBeFalse)
			So(gfx.Entries.Keys(), ShouldResemble, []string{"sprite1", "sprite2"})

			v, _ := gfx.Entries.Get("sprite1")
			So(v, ShouldEqual, filepath.FromSlash("assets/sprite1.png"))
		})

		Convey("an '@' prefixed section is a meta-section and is not path-normalized", func() {
			path := writeTempManifest(t, "[@info]\ntitle = My Game\n")

			m, err := Parse(ctx, path)
			So(err, ShouldBeNil)

			sec, ok := m.Sections.Get("info")
			So(ok, ShouldBeTrue)
			So(sec.Meta, ShouldBeTrue)

			v, _ := sec.Entries.Get("title")
			So(v, ShouldEqual, "My Game")
		})

		Convey("a trailing comment on a section header is stripped before finding ']'", func() {
			path := writeTempManifest(t, "[graphics] ; this section holds sprites\nkey = value\n")

			m, err := Parse(ctx, path)
			So(err, ShouldBeNil)
			So(m.Sections.Has("graphics"), ShouldBeTrue)
		})

		Convey("a redefined key keeps the last value seen", func() {
			path := writeTempManifest(t, "[a]\nk = first\nk = second\n")

			m, err := Parse(ctx, path)
			So(err, ShouldBeNil)

			sec, _ := m.Sections.Get("a")
			v, _ := sec.Entries.Get("k")
			So(v, ShouldEqual, "second")
		})

		Convey("lines before any section, and malformed lines, are ignored", func() {
			path := writeTempManifest(t, "stray = value\n[a]\nno-equals-sign\nk = v\n")

			m, err := Parse(ctx, path)
			So(err, ShouldBeNil)

			sec, ok := m.Sections.Get("a")
			So(ok, ShouldBeTrue)
			So(sec.Entries.Keys(), ShouldResemble, []string{"k"})
		})

		Convey("an unopened section with no closing bracket is skipped", func() {
			path := writeTempManifest(t, "[broken\nk = v\n")

			m, err := Parse(ctx, path)
			So(err, ShouldBeNil)
			So(m.Sections.Len(), ShouldEqual, 0)
		})

		Convey("a missing file fails to open", func() {
			_, err := Parse(ctx, filepath.Join(t.TempDir(), "does-not-exist.manifest"))
			So(err, ShouldNotBeNil)
		})
	})
}
