package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/mail-triage/internal/adapters/filter"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/drafting"
	"github.com/mikey/mail-triage/internal/factory"
	"github.com/mikey/mail-triage/internal/ports"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestBuildCLIContainer(t *testing.T) {
	path := writeConfig(t, `
store:
  enabled: true
  type: memory
drafter:
  provider: openai
`)

	container, err := BuildCLIContainer(&CLIFlags{ConfigFile: path, Provider: "template"})
	require.NoError(t, err)

	err = container.Invoke(func(
		cfg *config.Config,
		service *core.TriageService,
		composer *drafting.Composer,
		emailFilter ports.EmailFilter,
	) {
		assert.Equal(t, "template", cfg.GetString("drafter.provider"))
		assert.Equal(t, "cli", cfg.GetString("server.filter_type"))

		_, ok := emailFilter.(*filter.CliFilter)
		assert.True(t, ok)

		result := service.Triage(context.Background(), &core.Email{
			ID:      "m1",
			From:    "Prof <prof@cs.university.edu>",
			Subject: "Project meeting",
			Body:    "Can we schedule a meeting to discuss the project?",
		})
		assert.Equal(t, core.CategoryProfessional, result.Category)
		assert.True(t, result.HasMeeting)

		reply := composer.Compose(context.Background(), "the budget", core.RecipientColleague, 0.5)
		assert.Equal(t, drafting.TemplateSource, reply.Source)
	})
	require.NoError(t, err)
}

func TestBuildCLIContainerNoStore(t *testing.T) {
	path := writeConfig(t, "store:\n  type: memory\n")

	container, err := BuildCLIContainer(&CLIFlags{ConfigFile: path, NoStore: true})
	require.NoError(t, err)

	err = container.Invoke(func(store core.VerdictStore) {
		assert.Nil(t, store)
	})
	require.NoError(t, err)
}

func TestBuildCLIContainerUnknownProvider(t *testing.T) {
	path := writeConfig(t, "store:\n  enabled: false\n")

	container, err := BuildCLIContainer(&CLIFlags{ConfigFile: path, Provider: "carrier-pigeon"})
	require.NoError(t, err)

	err = container.Invoke(func(*drafting.Composer) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported drafter provider")
}

func TestBuildCLIContainerIMAPMailbox(t *testing.T) {
	path := writeConfig(t, `
mail:
  source: imap
  imap:
    address: 127.0.0.1:1
  smtp:
    from: me@example.com
`)

	container, err := BuildCLIContainer(&CLIFlags{ConfigFile: path, NoStore: true})
	require.NoError(t, err)

	err = container.Invoke(func(mf *factory.MailboxFactory) {
		mb, err := mf.CreateMailbox(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, mb.Source)
		assert.NotNil(t, mb.Sender)
		assert.Nil(t, mb.Scheduler)
		assert.NoError(t, mb.Close())
	})
	require.NoError(t, err)
}
