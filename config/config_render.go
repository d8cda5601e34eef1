package config

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/lambdaclass/merkle-tree-service/log"
	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

var (
	ErrMissingVars               = fmt.Errorf("missing vars")
	ErrUnsupportedConfigFileType = fmt.Errorf("unsupported config file type")

	// a var can appear as an unquoted TOML value: Foo = {{Bar}}
	unquotedVarRegexp = regexp.MustCompile(`=\s*\{\{\s*([a-zA-Z_0-9]+)\s*\}\}`)
)

type FileData struct {
	Name    string
	Content string
}

// ConfigRender merges the config files (in order, later files override
// earlier ones) and resolves the {{var}} indirections. Vars are resolved
// from the environment (prefixed) first and from the top-level keys of the
// merged configuration otherwise.
type ConfigRender struct {
	// 0: default, 1: specific
	FilesData []FileData
	// Function to resolve environment variables, typically os.LookupEnv
	LookupEnvFunc     func(key string) (string, bool)
	EnvironmentPrefix string
}

func NewConfigRender(filesData []FileData, environmentPrefix string) *ConfigRender {
	return &ConfigRender{
		FilesData:         filesData,
		LookupEnvFunc:     os.LookupEnv,
		EnvironmentPrefix: environmentPrefix,
	}
}

// Render merges all the files and resolves all the vars inside
func (c *ConfigRender) Render() (string, error) {
	mergedData, err := c.Merge()
	if err != nil {
		return "", fmt.Errorf("fail to merge files. Err: %w", err)
	}
	return c.ResolveVars(mergedData)
}

// Merge loads all the files into a single koanf instance and marshals the
// result back to TOML
func (c *ConfigRender) Merge() (string, error) {
	k := koanf.New(".")
	for _, data := range c.FilesData {
		dataToml := c.convertVarsToStrings(data.Content)
		err := k.Load(rawbytes.Provider([]byte(dataToml)), toml.Parser())
		if err != nil {
			log.Errorf("error loading file %s. Err:%v. FileData: %v", data.Name, err, dataToml)
			return "", fmt.Errorf("fail to load converted template %s to toml. Err: %w", data.Name, err)
		}
	}
	marshaled, err := k.Marshal(toml.Parser())
	if err != nil {
		return "", fmt.Errorf("fail to marshal to toml. Err: %w", err)
	}
	return string(marshaled), nil
}

// ResolveVars replaces each {{var}} tag on the merged data. Unresolvable
// tags are an error: a config with leftover indirections is unusable.
func (c *ConfigRender) ResolveVars(fullConfigData string) (string, error) {
	definedVars, err := c.definedVars(fullConfigData)
	if err != nil {
		return "", err
	}
	return fasttemplate.ExecuteFuncStringWithErr(fullConfigData, startTag, endTag,
		func(w io.Writer, tag string) (int, error) {
			if value, ok := c.LookupEnvFunc(c.EnvironmentPrefix + "_" + tag); ok {
				return w.Write([]byte(value))
			}
			if value, ok := definedVars[tag]; ok {
				return w.Write([]byte(value))
			}
			return 0, fmt.Errorf("%w: %s", ErrMissingVars, tag)
		})
}

// definedVars returns the top-level string keys of the merged configuration,
// which act as the var definitions for the rest of the file
func (c *ConfigRender) definedVars(fullConfigData string) (map[string]string, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider([]byte(fullConfigData)), toml.Parser()); err != nil {
		return nil, fmt.Errorf("fail to reload merged config. Err: %w", err)
	}
	vars := make(map[string]string)
	for key, value := range k.All() {
		if str, ok := value.(string); ok {
			vars[key] = str
		}
	}
	return vars, nil
}

// convertVarsToStrings quotes unquoted var usages so the data is valid TOML.
// Only string vars are supported: a var used as a raw value renders as the
// string it resolves to.
func (c *ConfigRender) convertVarsToStrings(data string) string {
	return unquotedVarRegexp.ReplaceAllString(data, `= "{{$1}}"`)
}

func convertFileToToml(fileContent string, fileExtension string) (string, error) {
	switch fileExtension {
	case "json":
		k := koanf.New(".")
		if err := k.Load(rawbytes.Provider([]byte(fileContent)), json.Parser()); err != nil {
			return "", fmt.Errorf("fail to load json. Err: %w", err)
		}
		marshaled, err := k.Marshal(toml.Parser())
		if err != nil {
			return "", fmt.Errorf("fail to marshal to toml. Err: %w", err)
		}
		return string(marshaled), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedConfigFileType, fileExtension)
	}
}
