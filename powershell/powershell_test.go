package powershell

import (
	"reflect"
	"strings"
	"testing"

	"github.com/redbadger/webdeploy/model"
)

func TestEncodePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"ascii", "abc", "YQBiAGMA"},
		{"shell metacharacters", `pa$$ "w0rd"`, "cABhACQAJAAgACIAdwAwAHIAZAAiAA=="},
		{"non ascii", "é€", "6QCsIA=="},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodePassword(model.NewPassword(tt.password))
			if err != nil {
				t.Fatalf("EncodePassword() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EncodePassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProbeCommand(t *testing.T) {
	s := Scripts{Dir: "/opt/webdeploy/scripts"}
	cmd, err := s.ProbeCommand("web01", `CORP\bob`, model.NewPassword("abc"), `D:\sites\shop`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"-ExecutionPolicy", "Bypass",
		"-File", "/opt/webdeploy/scripts/test-credentials.ps1",
		"-Server", "web01",
		"-Username", `CORP\bob`,
		"-PasswordBase64", "YQBiAGMA",
		"-TestPath", `D:\sites\shop`,
	}
	if cmd.Name != "powershell.exe" {
		t.Errorf("ProbeCommand() shell = %v", cmd.Name)
	}
	if !reflect.DeepEqual(cmd.Args, want) {
		t.Errorf("ProbeCommand() args = %v, want %v", cmd.Args, want)
	}
	if strings.Contains(cmd.String(), "YQBiAGMA") {
		t.Errorf("ProbeCommand() prints the password: %v", cmd.String())
	}
}

func TestDeployCommand(t *testing.T) {
	settings := model.DeploySettings{
		Server:               "web01",
		PoolName:             "ShopPool",
		AppFolderLocation:    `D:\sites\shop`,
		BackupFolderLocation: `D:\backup\shop`,
	}
	base := []string{
		"-ExecutionPolicy", "Bypass",
		"-File", "scripts/deploy-template.ps1",
		"-Username", "bob",
		"-PasswordBase64", "YQBiAGMA",
		"-Server", "web01",
		"-AppPoolName", "ShopPool",
		"-AppFolderLocation", `D:\sites\shop`,
		"-NewFilesPath", "/work/shop/dist/shop/browser",
		"-BackupFolder", `D:\backup\shop`,
	}
	tests := []struct {
		name    string
		cleanup []string
		copy    []string
		extra   []string
	}{
		{"no exclusions", nil, nil, nil},
		{"blank exclusions are dropped", []string{" ", ""}, []string{}, nil},
		{
			"both exclusion lists",
			[]string{"web.config", " logs "},
			[]string{"*.map"},
			[]string{"-ExcludeFromCleanup", "web.config,logs", "-ExcludeFromCopy", "*.map"},
		},
		{"copy only", nil, []string{"a", "b"}, []string{"-ExcludeFromCopy", "a,b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings
			s.ExcludeFromCleanup = tt.cleanup
			s.ExcludeFromCopy = tt.copy
			cmd, err := Scripts{Shell: "pwsh", Dir: "scripts"}.DeployCommand("bob", model.NewPassword("abc"), DeployTarget{
				Settings:     s,
				NewFilesPath: "/work/shop/dist/shop/browser",
				Dir:          "/work/shop",
			})
			if err != nil {
				t.Fatal(err)
			}
			want := append(append([]string{}, base...), tt.extra...)
			if !reflect.DeepEqual(cmd.Args, want) {
				t.Errorf("DeployCommand() args = %v, want %v", cmd.Args, want)
			}
			if cmd.Name != "pwsh" || cmd.Dir != "/work/shop" {
				t.Errorf("DeployCommand() = %v in %v", cmd.Name, cmd.Dir)
			}
		})
	}
}
