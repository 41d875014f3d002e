package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	def := []string{"*"}
	if got := IfEmpty(nil, def); len(got) != 1 || got[0] != "*" {
		t.Fatalf("IfEmpty(nil) = %v", got)
	}
	in := []string{"a"}
	if got := IfEmpty(in, def); len(got) != 1 || got[0] != "a" {
		t.Fatalf("IfEmpty(in) = %v", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"informe.pdf", "informe.pdf"},
		{"  informe.pdf  ", "informe.pdf"},
		{"../../etc/passwd", "passwd"},
		{`..\..\boot.ini`, "boot.ini"},
		{"zonas climáticas.pdf", "zonas_climaticas.pdf"},
		{"señal año.zip", "senal_ano.zip"},
		{"with space.zip", "with_space.zip"},
		{"semi;colon.pdf", "semi_colon.pdf"},
		{"", "_"},
		{".", "_"},
		{"..", "_"},
		{"dir/", "_"},
	}
	for _, c := range cases {
		if got := SanitizeFilename(c.in); got != c.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExt(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"mapa.PNG", ".png"},
		{"archive.ZIP", ".zip"},
		{"noext", ""},
		{"trailingdot.", ""},
		{"a.b.c.PDF", ".pdf"},
	}
	for _, c := range cases {
		if got := Ext(c.in); got != c.want {
			t.Fatalf("Ext(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
