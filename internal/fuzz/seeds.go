package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

var javaSeeds = []string{
	"",
	"class A {}",
	"package p;\n/** @noextend */\npublic class A {}\n",
	"package p;\n/**\n * @noextend\n * @noextend\n */\npublic final class A {}\n",
	"package p;\npublic interface I {\n  /** @nooverride */\n  void m();\n  /** @nooverride */\n  default void d() {}\n}\n",
	"package p;\npublic enum E {\n  /** @noreference */\n  ONE, TWO;\n  /** @noreference */\n  public static final int MAX = 1;\n}\n",
	"package p;\npublic @interface Ann {\n  /** @nooverride */\n  int value() default 0;\n}\n",
	"package p;\npublic record R(int x) {\n  /** @noinstantiate */\n  public R {}\n}\n",
	"package p;\nclass C {\n  /** @noreference */\n  private int f;\n  void m( {\n}\n",
	"/** {@link @noextend} @noimplement */ public class D { public class Inner { /** @noextend */ class Deep {} } }",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range javaSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.java file under the repository testdata
// directory, if there is one.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".java" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
