package configs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// OutputFormat 输出格式类型
type OutputFormat string

const (
	// FormatTable 终端表格，scan 的默认格式
	FormatTable OutputFormat = "table"
	// FormatMarkdown 使用 glamour 渲染的 Markdown 报告
	FormatMarkdown OutputFormat = "markdown"
	// FormatYAML represents the YAML output format.
	FormatYAML OutputFormat = "yaml"
	// FormatJSON represents the JSON output format.
	FormatJSON OutputFormat = "json"
	// FormatTOML represents the TOML output format.
	FormatTOML OutputFormat = "toml"
	// FormatText represents the plain text output format.
	FormatText OutputFormat = "text"
)

// DisplayConfig 报告展示配置
type DisplayConfig struct {
	Format   string `mapstructure:"format" json:"format" yaml:"format" toml:"format"`         // 默认输出格式
	Theme    string `mapstructure:"theme" json:"theme" yaml:"theme" toml:"theme"`             // glamour 主题: auto, dark, light, notty
	Width    int    `mapstructure:"width" json:"width" yaml:"width" toml:"width"`             // 表格宽度，0 表示自动检测终端宽度
	Snippets bool   `mapstructure:"snippets" json:"snippets" yaml:"snippets" toml:"snippets"` // 是否输出关键字片段
	Editor   string `mapstructure:"editor" json:"editor" yaml:"editor" toml:"editor"`         // 打开片段使用的编辑器，为空时读取 $EDITOR
}

func setDisplayConfigDefaults(v *viper.Viper) {
	v.SetDefault("display.format", string(FormatTable))
	v.SetDefault("display.theme", "auto")
	v.SetDefault("display.width", 0)
	v.SetDefault("display.snippets", true)
	v.SetDefault("display.editor", "")
}

// ValidFormats 返回所有有效的输出格式
func ValidFormats() []string {
	return []string{
		string(FormatTable), string(FormatMarkdown),
		string(FormatYAML), string(FormatJSON), string(FormatTOML), string(FormatText),
	}
}

// DataFormats 返回可用于序列化数据（例如配置文件）的格式
func DataFormats() []string {
	return []string{string(FormatYAML), string(FormatJSON), string(FormatTOML)}
}

// ParseOutputFormat 解析输出格式字符串
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "table", "tbl":
		return FormatTable, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported format '%s', supported formats: %s", format, strings.Join(ValidFormats(), ", "))
	}
}

// GetOutputFormatFromFlags 从命令行标志获取输出格式，未指定时返回 def
func GetOutputFormatFromFlags(cmd *cobra.Command, def OutputFormat) OutputFormat {
	// 首先检查 --format 标志
	if formatFlag, _ := cmd.Flags().GetString("format"); formatFlag != "" {
		if format, err := ParseOutputFormat(formatFlag); err == nil {
			return format
		}
	}

	// 检查具体的格式标志
	if yaml, _ := cmd.Flags().GetBool("yaml"); yaml {
		return FormatYAML
	}
	if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
		return FormatJSON
	}
	if toml, _ := cmd.Flags().GetBool("toml"); toml {
		return FormatTOML
	}
	if text, _ := cmd.Flags().GetBool("text"); text {
		return FormatText
	}
	if md, _ := cmd.Flags().GetBool("markdown"); md {
		return FormatMarkdown
	}

	return def
}

// OutputData 根据指定格式将数据序列化到 out
// table 与 markdown 属于报告渲染，不在此处理
func OutputData(data any, format OutputFormat, out io.Writer) error {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to close YAML encoder: %w", err)
		}
		_, err := out.Write(buf.Bytes())
		return err

	case FormatJSON:
		jsonData, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(jsonData))
		return err

	case FormatTOML:
		tomlData, err := toml.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal to TOML: %w", err)
		}
		_, err = out.Write(tomlData)
		return err

	case FormatText:
		_, err := fmt.Fprintf(out, "%+v\n", data)
		return err

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// GetConfigSection 从 viper 实例获取指定配置段
func GetConfigSection(v *viper.Viper, section string, showAll bool) (any, error) {
	if showAll {
		// 返回完整的配置结构体（包含默认值）
		var config Config
		if err := v.Unmarshal(&config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}

		if section == "" {
			return config, nil
		}

		// 使用反射动态查找配置段
		val := reflect.ValueOf(config)
		typ := val.Type()
		lowerSection := strings.ToLower(section)

		for i := range val.NumField() {
			if strings.ToLower(typ.Field(i).Tag.Get("mapstructure")) == lowerSection {
				return val.Field(i).Interface(), nil
			}
		}

		return nil, fmt.Errorf("unknown configuration section: %s", section)
	}

	lowerSection := strings.ToLower(section)
	if lowerSection == "" {
		return v.AllSettings(), nil
	}
	if v.IsSet(lowerSection) {
		return v.Get(lowerSection), nil
	}

	return nil, fmt.Errorf("unknown or unset configuration section %s", section)
}

// DefaultConfigPath 返回指定格式的默认配置文件名
func DefaultConfigPath(format OutputFormat) string {
	switch format {
	case FormatJSON:
		return ".codescope.json"
	case FormatTOML:
		return ".codescope.toml"
	default:
		return ".codescope.yaml"
	}
}

// CreateDefaultConfig 以指定格式写出包含全部默认值的配置文件，文件已存在时返回错误
func CreateDefaultConfig(path string, format OutputFormat) error {
	switch format {
	case FormatYAML, FormatJSON, FormatTOML:
	default:
		return fmt.Errorf("format %s is not supported for config files, use one of: %s", format, strings.Join(DataFormats(), ", "))
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	var config Config
	if err := NewViper().Unmarshal(&config); err != nil {
		return fmt.Errorf("failed to build default config: %w", err)
	}

	var buf bytes.Buffer
	if err := OutputData(config, format, &buf); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
