package cli_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/roster/internal/cli"
)

func Test_Add_Then_Ls_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if got, want := c.MustAdd("Juan", "", "Dela Cruz", "1990-01-01", "Male"), "00001"; got != want {
		t.Errorf("first id=%q, want=%q", got, want)
	}

	if got, want := c.MustAdd("Maria", "Santos", "Clara", "1992-06-15", "Female"), "00002"; got != want {
		t.Errorf("second id=%q, want=%q", got, want)
	}

	if got, want := c.ReadStore(), "00001,Juan,,Dela Cruz,1990-01-01,Male\n00002,Maria,Santos,Clara,1992-06-15,Female\n"; got != want {
		t.Errorf("store=%q, want=%q", got, want)
	}

	stdout := c.MustRun("ls")

	want := `ID: 00001
Name: Juan Dela Cruz
Birthday: January 01, 1990
Gender: Male

ID: 00002
Name: Maria Santos Clara
Birthday: June 15, 1992
Gender: Female`

	if got := stdout; got != want {
		t.Errorf("ls=\n%s\nwant=\n%s", got, want)
	}
}

func Test_Add_Defaults_Gender_When_Omitted(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("add", "-f", "Ann", "-l", "Smith", "-b", "2000-02-29")

	cli.AssertContains(t, c.ReadStore(), "00001,Ann,,Smith,2000-02-29,Male\n")
}

func Test_Add_Rejects_Invalid_Input_When_Invoked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing last name",
			args: []string{"add", "--first", "Ann", "--birthday", "1990-01-01"},
			want: "all fields except middle name are required",
		},
		{
			name: "digits in name",
			args: []string{"add", "--first", "R2D2", "--last", "Droid", "--birthday", "1977-05-25"},
			want: "should only contain letters",
		},
		{
			name: "bad birthday",
			args: []string{"add", "--first", "Ann", "--last", "Smith", "--birthday", "01/02/1990"},
			want: "invalid birthday format, use YYYY-MM-DD",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stderr := c.MustFail(tc.args...)
			cli.AssertContains(t, stderr, tc.want)

			stdout := c.MustRun("ls")
			if got, want := stdout, "No records found."; got != want {
				t.Errorf("ls=%q, want=%q", got, want)
			}
		})
	}
}

func Test_Ls_Empty_Store_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if got, want := c.MustRun("ls"), "No records found."; got != want {
		t.Errorf("ls=%q, want=%q", got, want)
	}
}

func Test_Ls_Malformed_Store_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteStore("00001,Ann,,Smith,1990-01-01,Female\n00002,Bob\n")

	stderr := c.MustFail("ls")
	cli.AssertContains(t, stderr, "malformed record at line 2")
}

func Test_Find_By_Each_Mode_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, index := range []bool{false, true} {
		name := "scan"
		if index {
			name = "index"
		}

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.MustAdd("Ann", "", "Smith", "1990-01-01", "Female")
			c.MustAdd("Bella", "", "Annabelle", "1991-05-06", "Female")
			c.MustAdd("Juan", "", "Dela Cruz", "1990-01-01", "Male")

			run := func(args ...string) string {
				if index {
					args = append([]string{"--index"}, args...)
				}

				return c.MustRun(args...)
			}

			stdout := run("find", "00002")
			cli.AssertRecordBlock(t, stdout, "00002", "Bella Annabelle", "May 06, 1991", "Female")
			cli.AssertNotContains(t, stdout, "ID: 00001")

			stdout = run("find", "--by", "name", "  ANN ")
			if got, want := strings.Count(stdout, "ID: "), 2; got != want {
				t.Errorf("name matches=%d, want=%d\n%s", got, want, stdout)
			}

			stdout = run("find", "--by", "name", "dela", "cruz")
			cli.AssertContains(t, stdout, "ID: 00003")

			stdout = run("find", "--by=birthday", "1990-01-01")
			cli.AssertContains(t, stdout, "ID: 00001")
			cli.AssertContains(t, stdout, "ID: 00003")

			if got, want := run("find", "99999"), "No matching records found."; got != want {
				t.Errorf("no match=%q, want=%q", got, want)
			}
		})
	}
}

func Test_Find_Errors_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	cli.AssertContains(t, c.MustFail("find"), "keyword is required")
	cli.AssertContains(t, c.MustFail("find", "--by", "age", "30"), "unknown search mode")
}

func Test_Show_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustAdd("Ann", "", "Smith", "1990-01-01", "Female")

	if got, want := c.MustShow("00001"), cli.RecordBlock("00001", "Ann Smith", "January 01, 1990", "Female"); got != want {
		t.Errorf("show=\n%s\nwant=\n%s", got, want)
	}

	cli.AssertContains(t, c.MustFail("show", "00002"), "record not found: 00002")
	cli.AssertContains(t, c.MustFail("show"), "record ID is required")
}

func Test_Next_ID_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if got, want := c.MustRun("next-id"), "00001"; got != want {
		t.Errorf("next-id=%q, want=%q", got, want)
	}

	c.WriteStore("00007,Ann,,Smith,1990-01-01,Female")

	if got, want := c.MustRun("next-id"), "00008"; got != want {
		t.Errorf("next-id=%q, want=%q", got, want)
	}

	if got, want := c.MustAdd("Bob", "", "Jones", "1985-03-04", "Male"), "00008"; got != want {
		t.Errorf("add id=%q, want=%q", got, want)
	}

	if got, want := c.ReadStore(), "00007,Ann,,Smith,1990-01-01,Female\n00008,Bob,,Jones,1985-03-04,Male\n"; got != want {
		t.Errorf("store=%q, want=%q", got, want)
	}
}

func Test_Check_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustAdd("Ann", "", "Smith", "1990-01-01", "Female")

	if got, want := c.MustRun("check"), "1 records, 0 problems"; got != want {
		t.Errorf("check=%q, want=%q", got, want)
	}

	c.WriteStore("00001,Ann,,Smith,1990-01-01,Female\n00001,Cy,,Lee,1970-03-03,Male\nbroken\n")

	stdout, stderr, exitCode := c.Run("check")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stdout, "2 records, 2 problems")
	cli.AssertContains(t, stderr, "warning: line 2: duplicate id 00001")
	cli.AssertContains(t, stderr, "warning: line 3: malformed record")
}

func Test_Reindex_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustAdd("Ann", "", "Smith", "1990-01-01", "Female")

	cli.AssertContains(t, c.MustFail("reindex"), "index is not enabled")

	stdout := c.MustRun("--index", "reindex")
	cli.AssertContains(t, stdout, "indexed 1 records into "+filepath.Join(c.Dir, "records.txt.index.sqlite"))
}

func Test_Store_Flag_Overrides_Default_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("--store", "nested/people.txt", "add", "-f", "Ann", "-l", "Smith", "-b", "1990-01-01")

	stdout := c.MustRun("--store", "nested/people.txt", "ls")
	cli.AssertContains(t, stdout, "Name: Ann Smith")

	if got, want := c.MustRun("ls"), "No records found."; got != want {
		t.Errorf("default store ls=%q, want=%q", got, want)
	}
}

func Test_Add_Stores_Gender_Verbatim_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustAdd(" Ann ", "", "Smith", "1990-01-01", " Female ")

	lines := c.StoreLines()
	if got, want := len(lines), 1; got != want {
		t.Fatalf("store lines=%d, want=%d", got, want)
	}

	if got, want := lines[0], "00001,Ann,,Smith,1990-01-01, Female "; got != want {
		t.Errorf("store line=%q, want=%q", got, want)
	}

	// show output is trimmed by MustRun, so check the full block through Run.
	stdout, _, exitCode := c.Run("show", id)
	if got, want := exitCode, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertRecordBlock(t, stdout, "00001", "Ann Smith", "January 01, 1990", " Female ")
}
