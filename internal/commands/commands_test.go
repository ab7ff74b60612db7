package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmk-dev/rmk/internal/auditlog"
	"github.com/rmk-dev/rmk/internal/commands"
)

// runRMK executes the CLI in-process and returns what it wrote to stdout.
func runRMK(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// newProject initializes a project without git, formatting amounts in English.
func newProject(t *testing.T) string {
	t.Helper()
	t.Setenv("RMK_REPO", "")
	t.Setenv("LOG_LEVEL", "")
	dir := t.TempDir()
	_, err := runRMK(t, "init", dir, "--company", "Test Biz", "--locale", "en", "--no-git")
	require.NoError(t, err)
	return dir
}

// addScenario books the three entries used across the report tests.
func addScenario(t *testing.T, dir string) {
	t.Helper()
	for _, args := range [][]string{
		{"--date", "2023-01-15", "--category", "Food", "--amount", "100"},
		{"--date", "2023-02-01", "--category", "Food", "--amount", "50"},
		{"--date", "2023-01-20", "--category", "Rent", "--amount", "200"},
	} {
		_, err := runRMK(t, append([]string{"add", "--repo", dir}, args...)...)
		require.NoError(t, err)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestInit_CreatesStructure(t *testing.T) {
	t.Setenv("RMK_REPO", "")
	dir := t.TempDir()
	out, err := runRMK(t, "init", dir, "--company", "Integritas AD", "--no-git")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized rmk project at "+dir)

	for _, d := range []string{"accounts", "ledger", "logs", "import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	data, err := os.ReadFile(filepath.Join(dir, "rmk.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Integritas AD")
	assert.Contains(t, string(data), "locale: pl")
	assert.Contains(t, string(data), "auto_commit: false")

	data, err = os.ReadFile(filepath.Join(dir, "accounts", "accounts.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "account_id,account_name,description\n"))
	assert.Contains(t, string(data), "640,Rozliczenia międzyokresowe kosztów czynne")
}

func TestInit_RefusesExistingProject(t *testing.T) {
	dir := newProject(t)
	_, err := runRMK(t, "init", dir, "--company", "Again", "--no-git")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_BadLocale(t *testing.T) {
	dir := t.TempDir()
	_, err := runRMK(t, "init", dir, "--company", "X", "--locale", "not a locale!", "--no-git")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "rmk.yaml"))
	assert.True(t, os.IsNotExist(statErr), "nothing written on a bad locale")
}

func TestInit_RequiresCompany(t *testing.T) {
	_, err := runRMK(t, "init", t.TempDir(), "--no-git")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company")
}

func TestInit_Git(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Setenv("RMK_REPO", "")
	dir := t.TempDir()
	out, err := runRMK(t, "init", dir, "--company", "Git Biz", "--locale", "en")
	require.NoError(t, err)
	assert.Contains(t, out, "(")

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err)

	_, err = runRMK(t, "add", "--repo", dir, "--date", "2023-01-15", "--category", "Food", "--amount", "10")
	require.NoError(t, err)

	log, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.NotEmpty(t, log[0].CommitHash)
}

func TestNotAProject(t *testing.T) {
	t.Setenv("RMK_REPO", "")
	_, err := runRMK(t, "report", "total", "--repo", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an rmk project")
}

func TestRepoFromEnv(t *testing.T) {
	dir := newProject(t)
	t.Setenv("RMK_REPO", dir)

	out, err := runRMK(t, "add", "--date", "2023-01-15", "--category", "Food", "--amount", "10")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-001\n", out)
}

func TestProjectDotEnv(t *testing.T) {
	dir := newProject(t)
	other := newProject(t)
	writeFile(t, filepath.Join(dir, ".env"), "RMK_TEST_DOTENV=loaded\n")
	t.Cleanup(func() { os.Unsetenv("RMK_TEST_DOTENV") })

	_, err := runRMK(t, "report", "total", "--repo", other)
	require.NoError(t, err)
	assert.Empty(t, os.Getenv("RMK_TEST_DOTENV"))

	_, err = runRMK(t, "report", "total", "--repo", dir)
	require.NoError(t, err)
	assert.Equal(t, "loaded", os.Getenv("RMK_TEST_DOTENV"))
}

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	dir := newProject(t)

	out, err := runRMK(t, "add", "--repo", dir, "--date", "2023-01-15", "--category", "Food", "--amount", "100", "--name", "Groceries")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-001\n", out)

	out, err = runRMK(t, "add", "--repo", dir, "--date", "2023-01-20", "--category", "Rent", "--amount", "200,50")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-002\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "ledger", "2023", "01", "entries.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "2023-01-002,2023-01-20,Rent,,,200.50\n")

	log, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, "add", log[1].Command)
	assert.Equal(t, []string{"2023-01-002"}, log[1].EntryIDs)
	assert.Empty(t, log[1].CommitHash)
}

func TestAdd_Rejected(t *testing.T) {
	dir := newProject(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"precision", []string{"--date", "2023-01-15", "--category", "Food", "--amount", "1.005"}, "validation failed"},
		{"blank category", []string{"--date", "2023-01-15", "--category", "", "--amount", "1"}, "validation failed"},
		{"bad date", []string{"--date", "15.01.2023", "--category", "Food", "--amount", "1"}, "parsing date"},
		{"bad amount", []string{"--date", "2023-01-15", "--category", "Food", "--amount", "ten"}, "parsing amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRMK(t, append([]string{"add", "--repo", dir}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := os.Stat(filepath.Join(dir, "ledger", "2023"))
	assert.True(t, os.IsNotExist(err), "nothing written")
}

func TestReport_Totals(t *testing.T) {
	dir := newProject(t)
	addScenario(t, dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"total", []string{"total"}, "350.00"},
		{"category", []string{"category", "Food"}, "150.00"},
		{"unknown category", []string{"category", "food"}, "0.00"},
		{"categories", []string{"categories"}, `{"Food": 150.00, "Rent": 200.00}`},
		{"month", []string{"month", "2023", "1"}, `{"Food": 100.00, "Rent": 200.00}`},
		{"empty month", []string{"month", "2023", "3"}, `{}`},
		{"period", []string{"period", "2023-01-16", "2023-02-01"}, `{"Food": 50.00, "Rent": 200.00}`},
		{"reversed period", []string{"period", "2023-02-01", "2023-01-01"}, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(append([]string{"report"}, tt.args...), "--repo", dir, "--json")
			out, err := runRMK(t, args...)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, out)
		})
	}
}

func TestReport_Tables(t *testing.T) {
	dir := newProject(t)
	addScenario(t, dir)

	out, err := runRMK(t, "report", "total", "--repo", dir)
	require.NoError(t, err)
	assert.Equal(t, "Total: 350.00\n", out)

	out, err = runRMK(t, "report", "categories", "--repo", dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Category"))
	assert.True(t, strings.HasPrefix(lines[1], "Food"))
	assert.True(t, strings.HasSuffix(lines[3], "350.00"))

	out, err = runRMK(t, "report", "entries", "--repo", dir, "--category", "Food")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-01-001")
	assert.Contains(t, out, "2023-02-001")
	assert.NotContains(t, out, "Rent")
}

func TestReport_MonthArguments(t *testing.T) {
	dir := newProject(t)

	tests := []struct {
		year, month string
		want        string
	}{
		{"2023", "13", "month must be 1-12"},
		{"2023", "0", "month must be 1-12"},
		{"2023", "jan", "month must be 1-12"},
		{"23", "1", "four-digit"},
	}
	for _, tt := range tests {
		t.Run(tt.year+"-"+tt.month, func(t *testing.T) {
			_, err := runRMK(t, "report", "month", tt.year, tt.month, "--repo", dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReport_SummaryAndBreakdown(t *testing.T) {
	dir := newProject(t)
	addScenario(t, dir)

	out, err := runRMK(t, "report", "summary", "--repo", dir, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"category": "Food", "count": 2, "total": 150.00, "average": 75.00},
		{"category": "Rent", "count": 1, "total": 200.00, "average": 200.00}
	]`, out)

	out, err = runRMK(t, "report", "breakdown", "--repo", dir, "--json", "--from", "2023-02")
	require.NoError(t, err)
	assert.JSONEq(t, `{"2023-02": {"Food": 50.00}}`, out)
}

func TestReport_Entries(t *testing.T) {
	dir := newProject(t)
	addScenario(t, dir)

	out, err := runRMK(t, "report", "entries", "--repo", dir, "--json", "--month", "2023-01", "--category", "Rent")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": "2023-01-002", "date": "2023-01-20", "category": "Rent", "amount": 200.00}]`, out)

	out, err = runRMK(t, "report", "entries", "--repo", dir, "--json", "--from", "2023-01-16")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, `"id"`))
}

func TestImport_Inbox(t *testing.T) {
	dir := newProject(t)
	writeFile(t, filepath.Join(dir, "import", "january.csv"),
		"date,category,amount,name\n2023-01-05,Food,\"12,50\",Bakery\n2023-01-06,Fuel,200,\n")

	out, err := runRMK(t, "import", "--repo", dir)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 entries from 1 file(s).\n", out)

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "january.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "import", "january.csv"))
	assert.True(t, os.IsNotExist(err))

	out, err = runRMK(t, "report", "categories", "--repo", dir, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Food": 12.50, "Fuel": 200.00}`, out)

	out, err = runRMK(t, "import", "--repo", dir)
	require.NoError(t, err)
	assert.Equal(t, "Nothing to import.\n", out)

	log, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, "import", log[0].Command)
	assert.Equal(t, []string{"2023-01-001", "2023-01-002"}, log[0].EntryIDs)
}

func TestImport_BadFileImportsNothing(t *testing.T) {
	dir := newProject(t)
	good := filepath.Join(t.TempDir(), "good.csv")
	bad := filepath.Join(t.TempDir(), "bad.csv")
	writeFile(t, good, "date,category,amount\n2023-01-05,Food,10\n")
	writeFile(t, bad, "date,category,amount\n2023-01-05,,10\n")

	_, err := runRMK(t, "import", "--repo", dir, good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.csv")

	out, err := runRMK(t, "report", "total", "--repo", dir)
	require.NoError(t, err)
	assert.Equal(t, "Total: 0.00\n", out)
}

func TestImport_UnknownFormat(t *testing.T) {
	dir := newProject(t)
	_, err := runRMK(t, "import", "--repo", dir, "--format", "mt940")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown import format "mt940"`)
}

func scheduleArgs(dir string, extra ...string) []string {
	args := []string{
		"schedule", "--repo", dir,
		"--description", "OC policy",
		"--category", "Insurance",
		"--start", "2023-01-01",
		"--months", "12",
		"--amount", "1200",
		"--cost-account", "409",
		"--rmk-account", "640",
	}
	return append(args, extra...)
}

func TestSchedule_DryRun(t *testing.T) {
	dir := newProject(t)

	out, err := runRMK(t, scheduleArgs(dir, "--dry-run")...)
	require.NoError(t, err)
	assert.Equal(t, 10, strings.Count(out, "108.77"))
	assert.Contains(t, out, "108.79")
	assert.Contains(t, out, "3.51")
	assert.Contains(t, out, "1,200.00")

	out, err = runRMK(t, "report", "total", "--repo", dir)
	require.NoError(t, err)
	assert.Equal(t, "Total: 0.00\n", out)
}

func TestSchedule_Books(t *testing.T) {
	dir := newProject(t)

	_, err := runRMK(t, scheduleArgs(dir, "--invoice", "FV/7/2023")...)
	require.NoError(t, err)

	out, err := runRMK(t, "report", "category", "Insurance", "--repo", dir, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "1200.00", out)

	out, err = runRMK(t, "report", "month", "2023", "12", "--repo", dir, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Insurance": 3.51}`, out)

	out, err = runRMK(t, "report", "entries", "--repo", dir, "--json", "--month", "2023-02")
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"id": "2023-02-001",
		"date": "2023-02-01",
		"category": "Insurance",
		"name": "OC policy",
		"description": "FV/7/2023 2/12",
		"amount": 108.77
	}]`, out)

	log, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, "schedule", log[0].Command)
	assert.Len(t, log[0].EntryIDs, 12)
}

func TestSchedule_Rejected(t *testing.T) {
	dir := newProject(t)

	_, err := runRMK(t, scheduleArgs(dir, "--cost-account", "999")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cost account 999 not found")

	_, err = runRMK(t, scheduleArgs(dir, "--amount", "12.345")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decimal places")

	_, err = runRMK(t, "schedule", "--repo", dir, "--category", "Insurance")
	require.Error(t, err)

	_, err = runRMK(t, scheduleArgs(dir, "--file", "items.csv")...)
	require.Error(t, err)

	out, err := runRMK(t, "report", "total", "--repo", dir)
	require.NoError(t, err)
	assert.Equal(t, "Total: 0.00\n", out)
}

func TestSchedule_File(t *testing.T) {
	dir := newProject(t)
	sheet := filepath.Join(t.TempDir(), "items.csv")
	writeFile(t, sheet, "Opis;Kategoria;Data od;Liczba miesięcy;Kwota;Konto kosztowe;Konto RMK\n"+
		"Polisa OC;Insurance;2023-01-17;2;100,00;409;640\n"+
		"Domena;IT;01.03.2023;1;59,99;402;640\n")

	_, err := runRMK(t, "schedule", "--repo", dir, "--file", sheet)
	require.NoError(t, err)

	out, err := runRMK(t, "report", "breakdown", "--repo", dir, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"2023-01": {"Insurance": 46.88},
		"2023-02": {"Insurance": 53.12},
		"2023-03": {"IT": 59.99}
	}`, out)
}

func TestAccounts(t *testing.T) {
	dir := newProject(t)

	out, err := runRMK(t, "accounts", "list", "--repo", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ID"))
	assert.Contains(t, out, "640")

	out, err = runRMK(t, "accounts", "add", "700", "Custom", "--description", "my account", "--repo", dir)
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)

	_, err = runRMK(t, "accounts", "describe", "700", "updated", "--repo", dir)
	require.NoError(t, err)

	out, err = runRMK(t, "accounts", "list", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Custom")
	assert.Contains(t, out, "updated")
	assert.NotContains(t, out, "my account")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"duplicate", []string{"add", "700", "Again"}, "700"},
		{"blank name", []string{"add", "701", "  "}, "empty"},
		{"bad id", []string{"add", "x", "Name"}, "must be a number"},
		{"describe missing", []string{"describe", "9999", "nope"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRMK(t, append(append([]string{"accounts"}, tt.args...), "--repo", dir)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	log, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, "accounts", log[0].Command)
}
