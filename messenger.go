package shellmock

import (
	"os"

	"github.com/ruffel/shellmock/internal/alias"
	"github.com/ruffel/shellmock/internal/messenger"
)

// Shims start their messenger with SHELLMOCK_ROLE=messenger; such a process never
// reaches main.
func init() {
	if os.Getenv(alias.EnvRole) != alias.RoleMessenger {
		return
	}

	os.Exit(messenger.Main(os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

// RenderShim returns the content of the alias file generated for name with the
// given options. Only WithMessenger and WithShebang affect the output.
func RenderShim(name string, opts ...Option) (string, error) {
	if err := alias.ValidateName(name); err != nil {
		return "", err
	}

	cfg, err := buildOptions(opts)
	if err != nil {
		return "", err
	}

	gen := alias.Generator{Messenger: cfg.Messenger, Shebang: cfg.Shebang}

	return gen.Render(name), nil
}
