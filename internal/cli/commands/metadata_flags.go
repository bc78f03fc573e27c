package commands

import (
	"flag"

	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/config"
)

// metaFlags — флаги прикладных метаданных, общие для stage, edit и settings.
type metaFlags struct {
	fs         *flag.FlagSet
	apps       *string
	langs      *string
	platforms  *string
	customTags *string
	usageCode  *string
	version    *string
}

func addMetaFlags(fs *flag.FlagSet) metaFlags {
	return metaFlags{
		fs:         fs,
		apps:       fs.String("apps", "", "приложения через запятую"),
		langs:      fs.String("langs", "", "языки через запятую"),
		platforms:  fs.String("platforms", "", "целевые платформы через запятую"),
		customTags: fs.String("custom-tags", "", "пользовательские теги через запятую"),
		usageCode:  fs.String("usage-code", "", "код использования"),
		version:    fs.String("meta-version", "", "версия метаданных"),
	}
}

// given reports whether at least one metadata flag was given.
func (m metaFlags) given() bool {
	for _, n := range []string{"apps", "langs", "platforms", "custom-tags", "usage-code", "meta-version"} {
		if flagWasSet(m.fs, n) {
			return true
		}
	}
	return false
}

// apply overrides base with the flags that were set.
func (m metaFlags) apply(base model.AppMetadata) model.AppMetadata {
	out := base.Clone()
	if flagWasSet(m.fs, "apps") {
		out.Apps = config.SplitList(*m.apps)
	}
	if flagWasSet(m.fs, "langs") {
		out.Langs = config.SplitList(*m.langs)
	}
	if flagWasSet(m.fs, "platforms") {
		out.TargetPlatforms = config.SplitList(*m.platforms)
	}
	if flagWasSet(m.fs, "custom-tags") {
		out.CustomTags = config.SplitList(*m.customTags)
	}
	if flagWasSet(m.fs, "usage-code") {
		out.UsageCode = *m.usageCode
	}
	if flagWasSet(m.fs, "meta-version") {
		out.Version = *m.version
	}
	return out.Normalize()
}
