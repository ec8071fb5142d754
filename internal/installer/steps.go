package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"botstrap/internal/config"
	"botstrap/internal/envfile"
	"botstrap/internal/envprobe"
	"botstrap/internal/fileutil"
	"botstrap/internal/keygen"
	"botstrap/internal/language"
	"botstrap/internal/service"
	"botstrap/internal/store"
	"botstrap/internal/venv"
)

func (i *Installer) stepProbe(ctx context.Context) (string, error) {
	python := envprobe.ProbePython(ctx, i.opts.Python)
	if !python.Available {
		return "", fmt.Errorf("python interpreter: %s", python.Detail)
	}

	var notes []string
	notes = append(notes, "python "+python.Detail)

	for _, status := range envprobe.CheckBinaries(envprobe.Requirements()) {
		if status.Name == "Python" {
			continue
		}
		if status.Available {
			notes = append(notes, strings.ToLower(status.Name)+" ok")
			continue
		}
		if status.Optional {
			notes = append(notes, strings.ToLower(status.Name)+" missing (optional)")
			continue
		}
		// FFmpeg is the only non-optional tool besides Python. The operator
		// may accept degraded output instead of aborting.
		if !i.continueWithoutFFmpeg() {
			hint := envprobe.DetectOS().PackageHint()
			ok, err := i.confirm("FFmpeg is missing; continue without merged downloads?", false)
			if err != nil {
				return "", err
			}
			if !ok {
				if hint != "" {
					return "", fmt.Errorf("%w (install it with: %s)", ErrAborted, hint)
				}
				return "", ErrAborted
			}
		}
		notes = append(notes, strings.ToLower(status.Name)+" missing (accepted)")
	}
	return strings.Join(notes, ", "), nil
}

func (i *Installer) stepScaffold(context.Context) (string, error) {
	missing := i.layout.Missing()
	if err := i.layout.Ensure(); err != nil {
		return "", err
	}
	if len(missing) == 0 {
		return "all directories present", nil
	}
	return fmt.Sprintf("created %d directories", len(missing)), nil
}

func (i *Installer) stepDatabase(ctx context.Context) (string, error) {
	st, err := store.Open(i.layout.DatabaseFile())
	if err != nil {
		return "", err
	}
	i.store = st
	if err := st.BeginRun(ctx, i.runID, i.opts.Version); err != nil {
		return "", err
	}
	i.flushPending(ctx)
	return i.layout.DatabaseFile(), nil
}

func (i *Installer) stepVenv(ctx context.Context) (string, error) {
	if i.skipVenv() {
		return "virtual environment disabled", errSkipped
	}
	manager := venv.New(i.layout.VenvDir(), i.opts.Python)
	created, err := manager.EnsureCreated(ctx)
	if err != nil {
		return "", err
	}
	if !created {
		return "already present at " + i.layout.VenvDir(), nil
	}
	return "created at " + i.layout.VenvDir(), nil
}

func (i *Installer) stepDependencies(ctx context.Context) (string, error) {
	if i.skipVenv() {
		return "virtual environment disabled", errSkipped
	}
	manifestPath := i.layout.RequirementsFile()
	if _, err := os.Stat(manifestPath); err != nil {
		return "", fmt.Errorf("dependency manifest missing at %s", manifestPath)
	}
	manager := venv.New(i.layout.VenvDir(), i.opts.Python)
	manifest, err := manager.InstallRequirements(ctx, manifestPath)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d packages (%d pinned)", len(manifest.Packages), manifest.PinnedCount()), nil
}

func (i *Installer) stepEnvironment(ctx context.Context) (string, error) {
	templatePath := i.layout.EnvTemplate()
	if _, err := os.Stat(templatePath); os.IsNotExist(err) {
		if err := config.WriteTemplate(templatePath, false); err != nil {
			return "", err
		}
	}

	targetPath := i.layout.EnvFile()
	overwrite := false
	if _, err := os.Stat(targetPath); err == nil {
		overwrite = i.overwriteEnv()
		if !overwrite {
			answer, err := i.confirm("A .env file already exists; overwrite it?", false)
			if err != nil {
				return "", err
			}
			overwrite = answer
		}
		if !overwrite {
			return "kept existing .env", errSkipped
		}
		backup, err := fileutil.BackupFile(targetPath)
		if err != nil {
			return "", fmt.Errorf("back up existing .env: %w", err)
		}
		i.log.Info("backed up existing env file", "backup", backup)
	}

	values, err := i.gatherEnvValues()
	if err != nil {
		return "", err
	}
	if err := envfile.Materialize(templatePath, targetPath, values, overwrite); err != nil {
		return "", err
	}

	if _, _, err := config.Load(i.layout.Base); err != nil {
		return "", fmt.Errorf("written configuration failed validation: %w", err)
	}
	return targetPath, nil
}

func (i *Installer) stepLanguages(context.Context) (string, error) {
	seeded, err := language.SeedCatalogs(i.layout.Languages())
	if err != nil {
		return "", err
	}
	set, err := language.LoadDir(i.layout.Languages(), "en")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%d seeded)", strings.Join(set.Codes(), ", "), len(seeded)), nil
}

func (i *Installer) stepService(ctx context.Context) (string, error) {
	if i.opts.SkipService {
		return "service registration disabled", errSkipped
	}
	install := i.opts.Profile != nil && i.opts.Profile.InstallService
	if !install {
		var err error
		install, err = i.confirm("Register the bot as a systemd service?", false)
		if err != nil {
			return "", err
		}
	}
	if !install {
		return "not requested", errSkipped
	}

	scope := service.ScopeUser
	if i.opts.Profile != nil && i.opts.Profile.ServiceScope == string(service.ScopeSystem) {
		scope = service.ScopeSystem
	}
	registrar, err := service.NewRegistrar(scope)
	if err != nil {
		return "", err
	}
	unitPath, err := registrar.Install(ctx, service.NewUnit(i.layout, scope))
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedPlatform) {
			return "not supported on this platform", errSkipped
		}
		return "", err
	}
	return unitPath, nil
}

func (i *Installer) skipVenv() bool {
	return i.opts.SkipVenv || (i.opts.Profile != nil && i.opts.Profile.SkipVenv)
}

func (i *Installer) overwriteEnv() bool {
	return i.opts.OverwriteEnv || (i.opts.Profile != nil && i.opts.Profile.OverwriteEnv)
}

func (i *Installer) continueWithoutFFmpeg() bool {
	return i.opts.ContinueNoFFmpeg || (i.opts.Profile != nil && i.opts.Profile.ContinueNoFFmpeg)
}

// gatherEnvValues collects the credential set written into .env. A profile
// answers everything; interactive runs prompt, with secrets read unechoed.
func (i *Installer) gatherEnvValues() (map[string]string, error) {
	values := map[string]string{}

	if p := i.opts.Profile; p != nil {
		values["API_ID"] = strconv.Itoa(p.APIID)
		values["API_HASH"] = p.APIHash
		values["BOT_TOKEN"] = p.BotToken
		values["OWNER_ID"] = strconv.FormatInt(p.OwnerID, 10)
		if p.DefaultLanguage != "" {
			values["DEFAULT_LANGUAGE"] = p.DefaultLanguage
		}
		if p.DefaultQuality != "" {
			values["DEFAULT_QUALITY"] = p.DefaultQuality
		}
		key := p.EncryptionKey
		if key == "" {
			generated, err := keygen.Generate()
			if err != nil {
				return nil, err
			}
			key = generated
		}
		values["ENCRYPTION_KEY"] = key
		return values, nil
	}

	apiID, err := i.promptInt("Telegram API ID")
	if err != nil {
		return nil, err
	}
	values["API_ID"] = strconv.Itoa(apiID)

	apiHash, err := i.opts.Prompter.Secret("Telegram API hash")
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(apiHash)) != 32 {
		return nil, fmt.Errorf("api hash must be 32 characters")
	}
	values["API_HASH"] = strings.TrimSpace(apiHash)

	token, err := i.opts.Prompter.Secret("Bot token")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(token, ":") {
		return nil, fmt.Errorf("bot token must look like <id>:<secret>")
	}
	values["BOT_TOKEN"] = strings.TrimSpace(token)

	ownerID, err := i.promptInt("Owner Telegram user id")
	if err != nil {
		return nil, err
	}
	values["OWNER_ID"] = strconv.Itoa(ownerID)

	lang, err := i.opts.Prompter.Input("Default language", "fa")
	if err != nil {
		return nil, err
	}
	if !config.SupportedLanguage(lang) {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	values["DEFAULT_LANGUAGE"] = lang

	quality, err := i.opts.Prompter.Input("Default quality", "1080")
	if err != nil {
		return nil, err
	}
	if !config.SupportedQuality(quality) {
		return nil, fmt.Errorf("unsupported quality %q", quality)
	}
	values["DEFAULT_QUALITY"] = quality

	key, err := keygen.Generate()
	if err != nil {
		return nil, err
	}
	values["ENCRYPTION_KEY"] = key
	return values, nil
}

func (i *Installer) promptInt(label string) (int, error) {
	raw, err := i.opts.Prompter.Input(label, "")
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", strings.ToLower(label))
	}
	return value, nil
}
