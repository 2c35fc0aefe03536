// Package config defines the runtime configuration for orgsync jobs.
//
// All credentials and identifiers are read once at process start into an
// explicit Config struct and passed to the components that need them.
// Components never read the environment themselves.
package config

import (
	"github.com/spf13/viper"

	"github.com/opshq/orgsync/pkg/errors"
)

// Config holds every credential and identifier the sync jobs use.
type Config struct {
	Airtable AirtableConfig
	GSuite   GSuiteConfig
	GitHub   GitHubConfig
	Okta     OktaConfig
	Slack    SlackConfig

	// StorePath is the path of the local SQLite store.
	StorePath string
}

// AirtableConfig configures the Airtable client.
type AirtableConfig struct {
	APIKey        string
	FinanceBaseID string
}

// GSuiteConfig configures the Google Workspace admin client.
type GSuiteConfig struct {
	// CustomerID is the GSuite customer/account identifier.
	CustomerID string
	// Domain is the primary GSuite domain.
	Domain string
	// CredentialFile is the path of the service account JSON key.
	CredentialFile string
	// Subject is the admin user the service account impersonates.
	Subject string
}

// GitHubConfig configures the GitHub client.
type GitHubConfig struct {
	Token string
	Org   string
}

// OktaConfig configures the Okta client.
type OktaConfig struct {
	// OrgURL is the base URL of the Okta org, e.g. https://example.okta.com.
	OrgURL string
	Token  string
}

// SlackConfig configures the Slack API client and webhook notifier.
type SlackConfig struct {
	APIToken string
	// OpsWebhookURL receives sync run notifications. Optional; when empty
	// no notification is posted.
	OpsWebhookURL string
	// HiringWebhookURL posts to the #hiring channel.
	HiringWebhookURL string
	// PublicRelationsWebhookURL posts to the #public-relations channel.
	PublicRelationsWebhookURL string
}

// FromEnv builds a Config from the given viper instance, which is expected
// to have AutomaticEnv enabled (and .env files already loaded).
func FromEnv(v *viper.Viper) *Config {
	storePath := v.GetString("ORGSYNC_DB_PATH")
	if storePath == "" {
		storePath = "orgsync.db"
	}

	return &Config{
		Airtable: AirtableConfig{
			APIKey:        v.GetString("AIRTABLE_API_KEY"),
			FinanceBaseID: v.GetString("AIRTABLE_BASE_ID_FINANCE"),
		},
		GSuite: GSuiteConfig{
			CustomerID:     v.GetString("GADMIN_ACCOUNT_ID"),
			Domain:         v.GetString("GSUITE_DOMAIN"),
			CredentialFile: v.GetString("GADMIN_CREDENTIAL_FILE"),
			Subject:        v.GetString("GADMIN_SUBJECT"),
		},
		GitHub: GitHubConfig{
			Token: v.GetString("GITHUB_TOKEN"),
			Org:   v.GetString("GITHUB_ORG"),
		},
		Okta: OktaConfig{
			OrgURL: v.GetString("OKTA_ORG_URL"),
			Token:  v.GetString("OKTA_API_TOKEN"),
		},
		Slack: SlackConfig{
			APIToken:                  v.GetString("SLACK_API_TOKEN"),
			OpsWebhookURL:             v.GetString("SLACK_OPS_CHANNEL_POST_URL"),
			HiringWebhookURL:          v.GetString("SLACK_HIRING_CHANNEL_POST_URL"),
			PublicRelationsWebhookURL: v.GetString("SLACK_PUBLIC_RELATIONS_CHANNEL_POST_URL"),
		},
		StorePath: storePath,
	}
}

// requireVars returns a ConfigError naming the first missing variable.
func requireVars(component string, vars map[string]string) error {
	for name, value := range vars {
		if value == "" {
			return errors.NewConfigError(component, name+" not set", nil)
		}
	}
	return nil
}

// Validate checks that the given AirtableConfig is complete.
func (c *AirtableConfig) Validate() error {
	return requireVars("airtable", map[string]string{
		"AIRTABLE_API_KEY":         c.APIKey,
		"AIRTABLE_BASE_ID_FINANCE": c.FinanceBaseID,
	})
}

// Validate checks that the given GSuiteConfig is complete.
func (c *GSuiteConfig) Validate() error {
	return requireVars("gsuite", map[string]string{
		"GADMIN_ACCOUNT_ID":      c.CustomerID,
		"GSUITE_DOMAIN":          c.Domain,
		"GADMIN_CREDENTIAL_FILE": c.CredentialFile,
		"GADMIN_SUBJECT":         c.Subject,
	})
}

// Validate checks that the given GitHubConfig is complete.
func (c *GitHubConfig) Validate() error {
	return requireVars("github", map[string]string{
		"GITHUB_TOKEN": c.Token,
		"GITHUB_ORG":   c.Org,
	})
}

// Validate checks that the given OktaConfig is complete.
func (c *OktaConfig) Validate() error {
	return requireVars("okta", map[string]string{
		"OKTA_ORG_URL":   c.OrgURL,
		"OKTA_API_TOKEN": c.Token,
	})
}

// Validate checks that the given SlackConfig is complete enough for the
// billable-seats API. Webhook URLs are validated by their callers since
// each job posts to a different channel.
func (c *SlackConfig) Validate() error {
	return requireVars("slack", map[string]string{
		"SLACK_API_TOKEN": c.APIToken,
	})
}

// ValidateForVendorSync checks everything the vendors reconciliation run
// needs. Missing configuration is a fatal startup error, before any
// network call is made.
func (c *Config) ValidateForVendorSync() error {
	for _, validate := range []func() error{
		c.Airtable.Validate,
		c.GSuite.Validate,
		c.GitHub.Validate,
		c.Okta.Validate,
		c.Slack.Validate,
	} {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}
