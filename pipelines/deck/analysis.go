package deck

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"autodeck/common"
)

// Per-file caps keep the summary a summary. Overflow is dropped, never an
// error; the outline stage has its own slide budget anyway.
const (
	maxFindingsPerFile = 8
	maxTopicsPerFile   = 3
	maxFindingLength   = 160
)

// Analyze reads every requested input in order and builds the content
// summary: topics, findings with provenance, numeric table summaries.
// Unreadable inputs become warning findings; the stage itself never fails.
func Analyze(req common.PresentationRequest) common.ContentSummary {
	var summary common.ContentSummary

	if req.Instructions != "" {
		summary.Findings = append(summary.Findings, common.Finding{
			Text: "Focus: " + common.TruncateAtWord(req.Instructions, maxFindingLength),
		})
		summary.Topics = appendTopics(summary.Topics, common.Keywords(req.Instructions, 3))
	}

	for _, input := range req.Inputs {
		path := input
		if abs, err := filepath.Abs(input); err == nil {
			path = abs
		}

		if _, err := os.Stat(path); err != nil {
			log.Printf("Warning: input not readable: %s", path)
			summary.Findings = append(summary.Findings, common.Finding{
				Text:    fmt.Sprintf("Input %s could not be read: %v", filepath.Base(path), err),
				Source:  path,
				Warning: true,
			})
			continue
		}

		switch common.ClassifyInput(path) {
		case common.KindText:
			analyzeText(&summary, path)
		case common.KindMarkdown:
			analyzeMarkdown(&summary, path)
		case common.KindTabular:
			analyzeTable(&summary, path)
		case common.KindPDF:
			analyzePDF(&summary, path)
		default:
			// Stat can succeed where reading does not (permissions, a
			// directory). Only an input that was actually read counts as
			// a source.
			if _, err := os.ReadFile(path); err != nil {
				log.Printf("Warning: input not readable: %s", path)
				summary.Findings = append(summary.Findings, common.Finding{
					Text:    fmt.Sprintf("Input %s could not be read: %v", filepath.Base(path), err),
					Source:  path,
					Warning: true,
				})
				continue
			}
			summary.Findings = append(summary.Findings, common.Finding{
				Text:    fmt.Sprintf("Input %s has an unsupported format and was skipped", filepath.Base(path)),
				Source:  path,
				Warning: true,
			})
			summary.Sources = appendSource(summary.Sources, path)
		}
	}

	return summary
}

func analyzeText(summary *common.ContentSummary, path string) {
	text, err := common.ReadTextFile(path)
	if err != nil {
		recordReadFailure(summary, path, err)
		return
	}
	summary.Sources = appendSource(summary.Sources, path)
	summary.Topics = appendTopics(summary.Topics, common.Keywords(text, maxTopicsPerFile))
	addParagraphFindings(summary, common.SplitParagraphs(text), path)
}

func analyzeMarkdown(summary *common.ContentSummary, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		recordReadFailure(summary, path, err)
		return
	}
	summary.Sources = appendSource(summary.Sources, path)

	doc := common.ParseMarkdown([]byte(common.ToUTF8(string(raw))))
	summary.Topics = appendTopics(summary.Topics, doc.Headings)
	if len(doc.Headings) == 0 {
		summary.Topics = appendTopics(summary.Topics, common.Keywords(string(raw), maxTopicsPerFile))
	}
	addParagraphFindings(summary, doc.Paragraphs, path)
}

func analyzeTable(summary *common.ContentSummary, path string) {
	header, rows, err := common.ReadTable(path)
	if err != nil {
		recordReadFailure(summary, path, err)
		return
	}
	summary.Sources = appendSource(summary.Sources, path)

	ref := fmt.Sprintf("table-%d", len(summary.Tables)+1)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	table := common.SummarizeTable(ref, path, header, rows)
	summary.Tables = append(summary.Tables, table)

	summary.Topics = appendTopics(summary.Topics, []string{name})
	summary.Topics = appendTopics(summary.Topics, common.TextColumns(header, table))

	for i, col := range table.Columns {
		if i >= maxFindingsPerFile {
			break
		}
		summary.Findings = append(summary.Findings, common.Finding{
			Text:   common.DescribeColumn(name, col),
			Source: path,
		})
	}
	if len(table.Columns) == 0 {
		summary.Findings = append(summary.Findings, common.Finding{
			Text:    fmt.Sprintf("Table %s has no numeric columns to summarize", filepath.Base(path)),
			Source:  path,
			Warning: true,
		})
	}
}

func analyzePDF(summary *common.ContentSummary, path string) {
	doc, err := common.OpenPDF(path)
	if err != nil {
		log.Printf("Warning: PDF extraction skipped for %s: %v", filepath.Base(path), err)
		summary.Findings = append(summary.Findings, common.Finding{
			Text:    fmt.Sprintf("PDF extraction skipped for %s; no reader available", filepath.Base(path)),
			Source:  path,
			Warning: true,
		})
		summary.Sources = appendSource(summary.Sources, path)
		return
	}
	defer doc.Close()
	summary.Sources = appendSource(summary.Sources, path)

	text, err := doc.ExtractText()
	if err != nil || strings.TrimSpace(text) == "" {
		summary.Findings = append(summary.Findings, common.Finding{
			Text:    fmt.Sprintf("PDF %s yielded no extractable text", filepath.Base(path)),
			Source:  path,
			Warning: true,
		})
		return
	}
	summary.Topics = appendTopics(summary.Topics, common.Keywords(text, maxTopicsPerFile))
	addParagraphFindings(summary, common.SplitParagraphs(text), path)
}

func addParagraphFindings(summary *common.ContentSummary, paragraphs []string, path string) {
	count := 0
	for _, para := range paragraphs {
		if count >= maxFindingsPerFile {
			break
		}
		fact := common.FirstSentence(para, maxFindingLength)
		if len(fact) < 10 {
			continue
		}
		summary.Findings = append(summary.Findings, common.Finding{Text: fact, Source: path})
		count++
	}
}

func recordReadFailure(summary *common.ContentSummary, path string, err error) {
	log.Printf("Warning: failed to read %s: %v", path, err)
	summary.Findings = append(summary.Findings, common.Finding{
		Text:    fmt.Sprintf("Input %s could not be parsed: %v", filepath.Base(path), err),
		Source:  path,
		Warning: true,
	})
	summary.Sources = appendSource(summary.Sources, path)
}

func appendSource(sources []string, path string) []string {
	for _, s := range sources {
		if s == path {
			return sources
		}
	}
	return append(sources, path)
}

func appendTopics(topics []string, candidates []string) []string {
	seen := make(map[string]bool, len(topics))
	for _, t := range topics {
		seen[strings.ToLower(t)] = true
	}
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		topics = append(topics, c)
		seen[strings.ToLower(c)] = true
	}
	return topics
}
