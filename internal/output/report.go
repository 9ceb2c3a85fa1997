package output

import (
	"fmt"
	"strings"

	"github.com/ventureboard/risklab/internal/domain"
)

// GenerateReport writes the report in the named format to a timestamped file in dir.
// "all" writes the verbose console, timeline CSV and HTML reports.
func GenerateReport(report *domain.AnalysisReport, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var written []string
		for _, name := range []string{"console", "timeline-csv", "html"} {
			path, err := WriteFormatted(GetFormatterByName(name), report, dir, FileExtension(name))
			if err != nil {
				return written, fmt.Errorf("%s report: %w", name, err)
			}
			written = append(written, path)
		}
		return written, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	path, err := WriteFormatted(f, report, dir, FileExtension(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// Render formats the report in memory.
func Render(report *domain.AnalysisReport, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q. Try one of: %s", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "))
	}
	return f.Format(report)
}
