package stager

import (
	"errors"
	"io/ioutil"
	"reflect"
	"sort"
	"testing"

	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/src-d/go-billy.v4/memfs"
	"gopkg.in/src-d/go-billy.v4/util"

	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/paths"
)

const distConfig = "dist/shop/browser/assets/configuration"

func workspace(t *testing.T, fs billy.Filesystem, files map[string]string, dirs ...string) *paths.Resolver {
	t.Helper()
	for _, d := range dirs {
		if err := fs.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range files {
		if err := util.WriteFile(fs, name, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return paths.NewWithFilesystem(fs, "/work/shop")
}

func listDir(t *testing.T, fs billy.Filesystem, dir string) []string {
	t.Helper()
	infos, err := fs.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, info := range infos {
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names
}

func content(t *testing.T, fs billy.Filesystem, name string) string {
	t.Helper()
	f, err := fs.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	b, err := ioutil.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func builtWorkspace(t *testing.T, fs billy.Filesystem) *paths.Resolver {
	return workspace(t, fs, map[string]string{
		"src/assets/configuration/configuration.production.json":  `{"api":"https://api"}`,
		"src/assets/configuration/configuration.development.json": `{"api":"http://localhost"}`,
		distConfig + "/configuration.json":                        `{"api":"http://localhost"}`,
		distConfig + "/configuration.production.json":             `{"api":"https://api"}`,
		distConfig + "/configuration.development.json":            `{"api":"http://localhost"}`,
		distConfig + "/labels.json":                               `{}`,
	})
}

func TestStage(t *testing.T) {
	fs := memfs.New()
	s := New(builtWorkspace(t, fs))

	res, err := s.Stage("shop", "production")
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if res.Target != distConfig+"/configuration.json" {
		t.Errorf("Stage() target = %v", res.Target)
	}
	sort.Strings(res.Removed)
	wantRemoved := []string{"configuration.development.json", "configuration.production.json"}
	if !reflect.DeepEqual(res.Removed, wantRemoved) {
		t.Errorf("Stage() removed = %v, want %v", res.Removed, wantRemoved)
	}
	if got := content(t, fs, distConfig+"/configuration.json"); got != `{"api":"https://api"}` {
		t.Errorf("configuration.json = %s", got)
	}
	if got := listDir(t, fs, distConfig); !reflect.DeepEqual(got, []string{"configuration.json", "labels.json"}) {
		t.Errorf("target dir = %v", got)
	}
}

func TestStageTwice(t *testing.T) {
	fs := memfs.New()
	s := New(builtWorkspace(t, fs))
	for i := 0; i < 2; i++ {
		if _, err := s.Stage("shop", "production"); err != nil {
			t.Fatalf("Stage() run %d error = %v", i+1, err)
		}
	}
	if got := listDir(t, fs, distConfig); !reflect.DeepEqual(got, []string{"configuration.json", "labels.json"}) {
		t.Errorf("target dir after two runs = %v", got)
	}
	if got := content(t, fs, distConfig+"/configuration.json"); got != `{"api":"https://api"}` {
		t.Errorf("configuration.json = %s", got)
	}
}

func TestStageFlatLayout(t *testing.T) {
	fs := memfs.New()
	s := New(workspace(t, fs, map[string]string{
		"src/assets/configuration/configuration.qa.json": "qa",
	}, "dist/shop/assets/configuration"))
	res, err := s.Stage("shop", "qa")
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if res.Target != "dist/shop/assets/configuration/configuration.json" {
		t.Errorf("Stage() target = %v", res.Target)
	}
}

func TestStageNotFound(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		dirs  []string
	}{
		{"no build output", map[string]string{"src/assets/configuration/configuration.qa.json": "qa"}, nil},
		{"no assets directory", map[string]string{"src/assets/configuration/configuration.qa.json": "qa"}, []string{"dist/shop/browser"}},
		{"no source config", nil, []string{distConfig}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memfs.New()
			_, err := New(workspace(t, fs, tt.files, tt.dirs...)).Stage("shop", "qa")
			if !errors.Is(err, model.ErrNotFound) {
				t.Errorf("Stage() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStageNoDirectoryCreated(t *testing.T) {
	fs := memfs.New()
	s := New(workspace(t, fs, map[string]string{
		"src/assets/configuration/configuration.qa.json": "qa",
	}, "dist/shop/browser"))
	if _, err := s.Stage("shop", "qa"); err == nil {
		t.Fatal("Stage() expected error")
	}
	if _, err := fs.Stat("dist/shop/browser/assets"); err == nil {
		t.Error("Stage() created the assets directory")
	}
}

// stubbornFs refuses to delete one file
type stubbornFs struct {
	billy.Filesystem
	keep string
}

func (f stubbornFs) Remove(name string) error {
	if name == f.keep {
		return errors.New("file is locked")
	}
	return f.Filesystem.Remove(name)
}

func TestStageCleanupFailureIsWarning(t *testing.T) {
	locked := distConfig + "/configuration.development.json"
	fs := stubbornFs{Filesystem: memfs.New(), keep: locked}
	s := New(builtWorkspace(t, fs))

	res, err := s.Stage("shop", "production")
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Name != "configuration.development.json" {
		t.Errorf("Stage() warnings = %v", res.Warnings)
	}
	if !reflect.DeepEqual(res.Removed, []string{"configuration.production.json"}) {
		t.Errorf("Stage() removed = %v", res.Removed)
	}
}
