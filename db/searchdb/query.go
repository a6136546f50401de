package searchdb

import (
	"regexp"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

var quotedPhrasePattern = regexp.MustCompile(`"([^"]*)"`)

// parseQuotedQuery splits "exact phrases" out of the query. Remaining terms
// are returned space separated with runs of whitespace collapsed.
func parseQuotedQuery(input string) ([]string, string) {
	var quoted []string
	for _, match := range quotedPhrasePattern.FindAllStringSubmatch(input, -1) {
		phrase := strings.Join(strings.Fields(match[1]), " ")
		if phrase != "" {
			quoted = append(quoted, phrase)
		}
	}

	remaining := quotedPhrasePattern.ReplaceAllString(input, " ")
	return quoted, strings.Join(strings.Fields(remaining), " ")
}

func buildSearchQuery(queryString string) query.Query {

	const (
		boostForTitle       = 3.0
		boostForTags        = 2.0
		boostForCategory    = 1.5
		boostForBody        = 1.0
		boostForPhraseMatch = 5.0
		boostForPrefixMatch = 1.5
	)

	queryString = strings.ToLower(strings.TrimSpace(queryString))
	if queryString == "" {
		return bleve.NewMatchAllQuery()
	}

	phrases, terms := parseQuotedQuery(queryString)

	conjunctQuery := bleve.NewConjunctionQuery()
	for _, phrase := range phrases {
		phraseQuery := bleve.NewDisjunctionQuery()
		for _, field := range []string{indexFieldTitle, indexFieldBody} {
			fieldPhrase := bleve.NewMatchPhraseQuery(phrase)
			fieldPhrase.SetField(field)
			fieldPhrase.SetBoost(boostForPhraseMatch)
			phraseQuery.AddQuery(fieldPhrase)
		}
		conjunctQuery.AddQuery(phraseQuery)
	}

	if terms != "" {
		disjunctQuery := bleve.NewDisjunctionQuery()
		fieldBoosts := []struct {
			field string
			boost float64
		}{
			{indexFieldTitle, boostForTitle},
			{indexFieldTags, boostForTags},
			{indexFieldCategory, boostForCategory},
			{indexFieldBody, boostForBody},
		}
		for _, fb := range fieldBoosts {
			matchQuery := bleve.NewMatchQuery(terms)
			matchQuery.SetField(fb.field)
			matchQuery.SetBoost(fb.boost)
			disjunctQuery.AddQuery(matchQuery)
		}

		if len(terms) > 2 && !strings.Contains(terms, " ") {
			prefixQuery := bleve.NewPrefixQuery(terms)
			prefixQuery.SetField(indexFieldTitle)
			prefixQuery.SetBoost(boostForPrefixMatch)
			disjunctQuery.AddQuery(prefixQuery)
		}
		conjunctQuery.AddQuery(disjunctQuery)
	}

	if len(conjunctQuery.Conjuncts) == 0 {
		return bleve.NewMatchAllQuery()
	}
	return conjunctQuery
}
