package main

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/webextract"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML config file. Absent keys leave the value from the
// preset or the defaults in place. Durations are seconds.
type fileConfig struct {
	Preset *string `yaml:"preset"`

	BaseURL             *string  `yaml:"base_url"`
	OutputDir           *string  `yaml:"output_dir"`
	MainContentSelector *string  `yaml:"main_content_selector"`
	TitleSelector       *string  `yaml:"title_selector"`
	SkipSelectors       []string `yaml:"skip_selectors"`

	DownloadImages    *bool    `yaml:"download_images"`
	ImageSkipKeywords []string `yaml:"image_skip_keywords"`
	ImagesFolderName  *string  `yaml:"images_folder_name"`
	FailedImagePolicy *string  `yaml:"failed_image_policy"`
	ImageDelay        *float64 `yaml:"image_delay"`

	PreserveBold   *bool   `yaml:"preserve_bold"`
	PreserveItalic *bool   `yaml:"preserve_italic"`
	PreserveCode   *bool   `yaml:"preserve_code"`
	PreserveLinks  *bool   `yaml:"preserve_links"`
	Engine         *string `yaml:"engine"`

	Timeout *float64          `yaml:"timeout"`
	Delay   *float64          `yaml:"delay"`
	Headers map[string]string `yaml:"headers"`

	FileEncoding   *string `yaml:"file_encoding"`
	FrontMatter    *bool   `yaml:"front_matter"`
	SourceLink     *bool   `yaml:"source_link"`
	CreateIndex    *bool   `yaml:"create_index"`
	Verbose        *bool   `yaml:"verbose"`
	SaveFailedURLs *bool   `yaml:"save_failed_urls"`
}

// readConfigFile decodes the YAML config at path. Unknown keys are
// rejected.
func readConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, webextract.Errorf(webextract.EINVALID, "read config file: %v", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*fileConfig, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, webextract.Errorf(webextract.EINVALID, "parse config file: %v", err)
	}
	return &fc, nil
}

func (fc *fileConfig) apply(cfg *webextract.Config) {
	setString(&cfg.BaseURL, fc.BaseURL)
	setString(&cfg.OutputDir, fc.OutputDir)
	setString(&cfg.MainContentSelector, fc.MainContentSelector)
	setString(&cfg.TitleSelector, fc.TitleSelector)
	if fc.SkipSelectors != nil {
		cfg.SkipSelectors = fc.SkipSelectors
	}

	setBool(&cfg.DownloadImages, fc.DownloadImages)
	if fc.ImageSkipKeywords != nil {
		cfg.ImageSkipKeywords = fc.ImageSkipKeywords
	}
	setString(&cfg.ImagesFolderName, fc.ImagesFolderName)
	if fc.FailedImagePolicy != nil {
		cfg.FailedImagePolicy = webextract.FailedImagePolicy(*fc.FailedImagePolicy)
	}
	setSeconds(&cfg.ImageDelay, fc.ImageDelay)

	setBool(&cfg.PreserveBold, fc.PreserveBold)
	setBool(&cfg.PreserveItalic, fc.PreserveItalic)
	setBool(&cfg.PreserveCode, fc.PreserveCode)
	setBool(&cfg.PreserveLinks, fc.PreserveLinks)
	if fc.Engine != nil {
		cfg.Engine = webextract.Engine(*fc.Engine)
	}

	setSeconds(&cfg.Timeout, fc.Timeout)
	setSeconds(&cfg.Delay, fc.Delay)
	mergeHeaders(cfg, fc.Headers)

	setString(&cfg.FileEncoding, fc.FileEncoding)
	setBool(&cfg.FrontMatter, fc.FrontMatter)
	setBool(&cfg.SourceLink, fc.SourceLink)
	setBool(&cfg.CreateIndex, fc.CreateIndex)
	setBool(&cfg.Verbose, fc.Verbose)
	setBool(&cfg.SaveFailedURLs, fc.SaveFailedURLs)
}

// Load builds the run config from the defaults, the preset, the config
// file and the flags, each overriding the one before.
func (f *ConfigFlags) Load() (webextract.Config, error) {
	var fc *fileConfig
	if f.Config != "" {
		var err error
		if fc, err = readConfigFile(f.Config); err != nil {
			return webextract.Config{}, err
		}
	}

	preset := f.Preset
	if preset == "" && fc != nil && fc.Preset != nil {
		preset = *fc.Preset
	}

	cfg := webextract.DefaultConfig()
	if preset != "" {
		var err error
		if cfg, err = webextract.Preset(preset); err != nil {
			return webextract.Config{}, err
		}
	}
	if fc != nil {
		fc.apply(&cfg)
	}
	if err := f.apply(&cfg); err != nil {
		return webextract.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return webextract.Config{}, err
	}
	return cfg, nil
}

func (f *ConfigFlags) apply(cfg *webextract.Config) error {
	setFlag(&cfg.OutputDir, f.Output)
	setFlag(&cfg.BaseURL, f.BaseURL)
	setFlag(&cfg.MainContentSelector, f.MainSelector)
	setFlag(&cfg.TitleSelector, f.TitleSelector)
	if len(f.Skip) > 0 {
		cfg.SkipSelectors = f.Skip
	}
	if f.Engine != "" {
		cfg.Engine = webextract.Engine(f.Engine)
	}

	if f.NoImages {
		cfg.DownloadImages = false
	}
	if f.DropFailedImages {
		cfg.FailedImagePolicy = webextract.DropImage
	}
	if len(f.SkipKeyword) > 0 {
		cfg.ImageSkipKeywords = f.SkipKeyword
	}
	for _, d := range []struct {
		flag  string
		value string
		dst   *time.Duration
	}{
		{"image-delay", f.ImageDelay, &cfg.ImageDelay},
		{"timeout", f.Timeout, &cfg.Timeout},
		{"delay", f.Delay, &cfg.Delay},
	} {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return webextract.Errorf(webextract.EINVALID, "invalid --%s %q", d.flag, d.value)
		}
		*d.dst = v
	}
	mergeHeaders(cfg, f.Header)

	if f.NoBold {
		cfg.PreserveBold = false
	}
	if f.NoItalic {
		cfg.PreserveItalic = false
	}
	if f.NoCode {
		cfg.PreserveCode = false
	}
	if f.NoLinks {
		cfg.PreserveLinks = false
	}

	setFlag(&cfg.FileEncoding, f.Encoding)
	if f.FrontMatter {
		cfg.FrontMatter = true
	}
	if f.SourceLink {
		cfg.SourceLink = true
	}
	if f.NoIndex {
		cfg.CreateIndex = false
	}
	if f.NoFailed {
		cfg.SaveFailedURLs = false
	}
	if f.Quiet {
		cfg.Verbose = false
	}
	return nil
}

// mergeHeaders adds headers over the configured ones. Header names are
// matched case-insensitively.
func mergeHeaders(cfg *webextract.Config, headers map[string]string) {
	if len(headers) == 0 {
		return
	}
	merged := maps.Clone(cfg.Headers)
	if merged == nil {
		merged = make(map[string]string, len(headers))
	}
	for k, v := range headers {
		for existing := range merged {
			if strings.EqualFold(existing, k) {
				delete(merged, existing)
			}
		}
		merged[k] = v
	}
	cfg.Headers = merged
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setSeconds(dst *time.Duration, v *float64) {
	if v != nil {
		*dst = time.Duration(*v * float64(time.Second))
	}
}

func setFlag(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
