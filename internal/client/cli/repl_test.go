package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) isLoggedIn() bool                  { return s.loggedIn }
func (s *stubExec) Register(ctx context.Context) error { return s.record("register") }
func (s *stubExec) Login(ctx context.Context) error    { return s.record("login") }
func (s *stubExec) Logout(ctx context.Context) error   { return s.record("logout") }
func (s *stubExec) List(ctx context.Context) error     { return s.record("list") }
func (s *stubExec) Add(ctx context.Context) error      { return s.record("add") }
func (s *stubExec) Remove(ctx context.Context) error   { return s.record("remove") }
func (s *stubExec) Export(ctx context.Context) error   { return s.record("export") }

func runWithInput(t *testing.T, a execIface, input string) []string {
	t.Helper()

	var out []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		for _, arg := range args {
			out = append(out, strings.TrimSpace(anyToString(arg)))
		}
		return 0, nil
	}
	defer func() { printlnFn = orig }()

	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), a, func() string { return "test" }, scanner)
	return out
}

func anyToString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func TestREPL_DispatchesCommands(t *testing.T) {
	stub := &stubExec{loggedIn: true}

	runWithInput(t, stub, "list\nadd\nremove\nexport\nlogout\nexit\n")

	assert.Equal(t, []string{"list", "add", "remove", "export", "logout"}, stub.calls)
}

func TestREPL_ListShortcut(t *testing.T) {
	stub := &stubExec{}

	runWithInput(t, stub, "l\nquit\n")

	assert.Equal(t, []string{"list"}, stub.calls)
}

func TestREPL_UnknownCommandReported(t *testing.T) {
	stub := &stubExec{}

	out := runWithInput(t, stub, "bogus\nexit\n")

	assert.Contains(t, out, "Unknown command:")
	assert.Empty(t, stub.calls)
}

func TestREPL_HelpDependsOnLoginState(t *testing.T) {
	loggedOut := runWithInput(t, &stubExec{}, "help\nexit\n")
	assert.Contains(t, strings.Join(loggedOut, " "), "register, login")

	loggedIn := runWithInput(t, &stubExec{loggedIn: true}, "help\nexit\n")
	assert.Contains(t, strings.Join(loggedIn, " "), "export, logout")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	stub := &stubExec{}
	runWithInput(t, stub, "")
	assert.Empty(t, stub.calls)
}

func TestPriorityLabel(t *testing.T) {
	assert.Equal(t, "high", priorityLabel(1))
	assert.Equal(t, "medium", priorityLabel(2))
	assert.Equal(t, "low", priorityLabel(3))
	assert.Equal(t, "7", priorityLabel(7))
}
