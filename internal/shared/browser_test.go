package shared

import "testing"

func TestBrowserCommand(t *testing.T) {
	tc := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "rundll32"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := browserCommand(tt.goos, "https://example.com")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unsupported platform")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.want {
				t.Errorf("expected %s, got %s", tt.want, name)
			}
			if args[len(args)-1] != "https://example.com" {
				t.Errorf("expected url as last argument, got %v", args)
			}
		})
	}

	t.Run("OpenBrowser unsupported runtime", func(t *testing.T) {
		orig := getRuntime
		getRuntime = func() string { return "plan9" }
		t.Cleanup(func() { getRuntime = orig })

		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error on unsupported runtime")
		}
	})
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := GenerateState()
	if len(a) != 32 {
		t.Errorf("expected 32 characters, got %d", len(a))
	}
	if a == b {
		t.Error("expected distinct states")
	}
}
