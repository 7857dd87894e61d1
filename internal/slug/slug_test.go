package slug

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Eating Out", "eating_out"},
		{"  Rent & Bills  ", "rent_bills"},
		{"Groceries", "groceries"},
		{"salary", "salary"},
		{"Café!!", "caf"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
