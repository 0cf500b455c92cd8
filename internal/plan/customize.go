package plan

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/suspenders-cli/suspenders/internal/builder"
	"github.com/suspenders-cli/suspenders/internal/options"
)

// RootPhase is the name of the phase returned by Customize.
const RootPhase = "customize"

// Outro is announced after a successful run.
var Outro = []string{
	"Congratulations! You just pulled our suspenders.",
	"Remember to run 'rails generate airbrake' with your API key.",
}

// PostgresConfigTemplate is the database.yml template used for postgresql.
const PostgresConfigTemplate = "postgresql.yml.erb"

// CommonArgs are passed to every step.
func CommonArgs(cfg options.Config) builder.Args {
	return builder.Args{
		"app_name":  cfg.AppName,
		"app_title": AppTitle(cfg.AppName),
		"database":  cfg.Database,
	}
}

// AppTitle turns a directory-style name into a display title:
// "my_shop-api" becomes "My Shop Api".
func AppTitle(name string) string {
	words := strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return cases.Title(language.English).String(strings.Join(strings.Fields(words), " "))
}

// databaseGems maps a database to the adapter gem it needs in the Gemfile.
var databaseGems = map[string]string{
	"postgresql": "pg",
	"mysql":      "mysql2",
	"sqlite3":    "sqlite3",
}

func usesPostgres(cfg options.Config) bool { return cfg.UsesPostgres() }

func runsBundle(cfg options.Config) bool { return !cfg.SkipBundle }

// Customize returns the step registry and the root "customize" phase.
// Each call builds fresh values; callers may not share them across runs.
func Customize() (*Registry, *Phase) {
	reg := NewRegistry()
	reg.MustRegister(
		// Gemfile
		Step{Name: "replace_gemfile", Args: func(cfg options.Config) builder.Args {
			return builder.Args{
				"database_gem": databaseGems[cfg.Database],
				"turbolinks":   strconv.FormatBool(!cfg.SkipTurbolinks),
			}
		}},
		Step{Name: "set_ruby_to_version_being_used", Args: func(cfg options.Config) builder.Args {
			return builder.Args{"ruby_version": cfg.RubyVersion}
		}},
		Step{Name: "bundle_install", Guard: runsBundle},

		// Development
		Step{Name: "raise_on_delivery_errors"},
		Step{Name: "set_test_delivery_method"},
		Step{Name: "raise_on_unpermitted_parameters"},
		Step{Name: "provide_setup_script"},
		Step{Name: "provide_dev_prime_task"},
		Step{Name: "configure_generators"},
		Step{Name: "configure_i18n_for_missing_translations"},

		// Test
		Step{Name: "set_up_factory_girl_for_rspec"},
		Step{Name: "generate_rspec"},
		Step{Name: "configure_rspec"},
		Step{Name: "configure_background_jobs_for_rspec"},
		Step{Name: "enable_database_cleaner"},
		Step{Name: "configure_spec_support_features"},
		Step{Name: "configure_i18n_for_test_environment"},
		Step{Name: "configure_i18n_tasks"},
		Step{Name: "configure_action_mailer_in_specs"},

		// Production
		Step{Name: "configure_newrelic"},
		Step{Name: "configure_smtp"},
		Step{Name: "configure_rack_timeout"},
		Step{Name: "enable_rack_canonical_host"},
		Step{Name: "enable_rack_deflater"},
		Step{Name: "setup_asset_host"},

		Step{Name: "setup_staging_environment"},
		Step{Name: "setup_secret_token"},

		// Views
		Step{Name: "create_partials_directory"},
		Step{Name: "create_shared_flashes"},
		Step{Name: "create_shared_javascripts"},
		Step{Name: "create_application_layout"},

		// App
		Step{Name: "configure_action_mailer"},
		Step{Name: "configure_active_job"},
		Step{Name: "configure_time_formats"},
		Step{Name: "configure_simple_form"},
		Step{Name: "disable_xml_params"},
		Step{Name: "fix_i18n_deprecation_warning"},
		Step{Name: "setup_default_rake_task"},
		Step{Name: "configure_puma"},

		Step{Name: "setup_stylesheets"},
		Step{Name: "copy_miscellaneous_files"},
		Step{Name: "remove_routes_comment_lines"},

		// Git
		Step{Name: "gitignore_files"},
		Step{Name: "init_git"},

		// Database
		Step{Name: "use_postgres_config_template", Guard: usesPostgres, Args: func(options.Config) builder.Args {
			return builder.Args{"template": PostgresConfigTemplate}
		}},
		Step{Name: "create_database"},

		Step{Name: "setup_segment"},
		Step{Name: "setup_bundler_audit"},
		Step{Name: "setup_spring"},
	)

	root := NewPhase(RootPhase, "",
		NewPhase("customize_gemfile", "",
			Steps("replace_gemfile", "set_ruby_to_version_being_used", "bundle_install")...),
		NewPhase("setup_development_environment", "Setting up the development environment",
			Steps(
				"raise_on_delivery_errors",
				"set_test_delivery_method",
				"raise_on_unpermitted_parameters",
				"provide_setup_script",
				"provide_dev_prime_task",
				"configure_generators",
				"configure_i18n_for_missing_translations",
			)...),
		NewPhase("setup_test_environment", "Setting up the test environment",
			Steps(
				"set_up_factory_girl_for_rspec",
				"generate_rspec",
				"configure_rspec",
				"configure_background_jobs_for_rspec",
				"enable_database_cleaner",
				"configure_spec_support_features",
				"configure_i18n_for_test_environment",
				"configure_i18n_tasks",
				"configure_action_mailer_in_specs",
			)...),
		NewPhase("setup_production_environment", "Setting up the production environment",
			Steps(
				"configure_newrelic",
				"configure_smtp",
				"configure_rack_timeout",
				"enable_rack_canonical_host",
				"enable_rack_deflater",
				"setup_asset_host",
			)...),
		NewPhase("setup_staging_environment", "Setting up the staging environment",
			Steps("setup_staging_environment")...),
		NewPhase("setup_secret_token", "Moving secret token out of version control",
			Steps("setup_secret_token")...),
		NewPhase("create_suspenders_views", "Creating suspenders views",
			Steps(
				"create_partials_directory",
				"create_shared_flashes",
				"create_shared_javascripts",
				"create_application_layout",
			)...),
		NewPhase("configure_app", "Configuring app",
			Steps(
				"configure_action_mailer",
				"configure_active_job",
				"configure_time_formats",
				"configure_simple_form",
				"disable_xml_params",
				"fix_i18n_deprecation_warning",
				"setup_default_rake_task",
				"configure_puma",
			)...),
		NewPhase("setup_stylesheets", "Set up stylesheets",
			Steps("setup_stylesheets")...),
		NewPhase("copy_miscellaneous_files", "Copying miscellaneous support files",
			Steps("copy_miscellaneous_files")...),
		NewPhase("remove_routes_comment_lines", "",
			Steps("remove_routes_comment_lines")...),
		NewPhase("setup_git", "Initializing git",
			NewPhase("setup_gitignore", "", Steps("gitignore_files")...),
			NewPhase("init_git", "", Steps("init_git")...),
		),
		NewPhase("setup_database", "Setting up database",
			Steps("use_postgres_config_template", "create_database")...),
		NewPhase("setup_segment", "Setting up Segment",
			Steps("setup_segment")...),
		NewPhase("setup_bundler_audit", "Setting up bundler-audit",
			Steps("setup_bundler_audit")...),
		NewPhase("setup_spring", "Springifying binstubs",
			Steps("setup_spring")...),
	)

	return reg, root
}
