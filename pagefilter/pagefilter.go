// Package pagefilter decides whether a crawled URL or page should be kept
// out of the link index. Rules are an ordered chain of independent
// predicates; the first match wins and its reason is returned for
// diagnostics and the admin export.
package pagefilter

import (
	"net/url"
	"regexp"
	"strings"
)

// Forum-language heuristics applied to the meta description. Editorial
// pages never speak in the first person or beg for replies; forum threads
// and Q&A scrapes do.
var forumFirstPerson = []string{
	"j'ai ", "j’ai ", "je suis ", "je cherche ", "je voudrais ",
	"je veux ", "je ne sais ", "mon probleme", "mon problème",
	"ma question", "i need ", "i have a problem", "i was wondering",
	"can anyone", "help me",
}

var forumAppeals = []string{
	"besoin d'aide", "besoin d’aide", "aidez-moi", "aidez moi",
	"quelqu'un peut", "quelqu’un peut", "une solution svp",
	"merci d'avance", "merci d’avance", "please help", "any help",
}

var smsSlangPattern = regexp.MustCompile(`(^|\s)(svp|stp|bcp|pk|pq|qqn|slt|tkt|mdr)(\s|[.,!?]|$)`)

// Site-specific path substrings excluded regardless of the generic rules.
var sitePathPatterns = []string{
	"/espace-client",
	"/mon-compte",
	"/devis-en-ligne",
}

// Generic path segments that never carry editorial content.
var excludedSegments = []string{
	"/admin", "/wp-admin", "/login", "/connexion", "/signin", "/signup",
	"/register", "/inscription", "/account", "/compte", "/profile",
	"/checkout", "/commande", "/cart", "/panier", "/basket", "/payment",
	"/paiement", "/search", "/recherche", "/tag/", "/tags/", "/author/",
	"/auteur/", "/feed", "/rss", "/sitemap", "/mentions-legales",
	"/politique-de-confidentialite", "/cgv", "/cgu", "/privacy", "/terms",
	"/cookie", "/unsubscribe", "/desinscription", "/print/", "/amp/",
}

var excludedExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".ico",
	".zip", ".rar", ".tar", ".gz", ".mp3", ".mp4", ".avi", ".mov",
	".css", ".js", ".json", ".xml", ".txt",
}

var excludedQueryParams = []string{
	"s", "search", "q", "query", "page", "paged", "sort", "order",
	"orderby", "filter", "replytocom", "share", "print", "preview",
	"add-to-cart", "attachment_id",
}

const (
	maxPathDepth     = 6
	longNumericIDLen = 8
)

var longNumericSegment = regexp.MustCompile(`/\d{8,}(/|$|\.)`)

// ShouldExcludeURL evaluates the exclusion chain for a URL and its meta
// description. It is pure and deterministic: the same inputs always yield
// the same verdict and reason.
func ShouldExcludeURL(rawURL, metaDescription string) (bool, string) {
	meta := strings.ToLower(metaDescription)

	for _, p := range forumFirstPerson {
		if strings.Contains(meta, p) {
			return true, "forum first-person language detected"
		}
	}
	for _, p := range forumAppeals {
		if strings.Contains(meta, p) {
			return true, "forum appeal phrase detected"
		}
	}
	if smsSlangPattern.MatchString(meta) {
		return true, "forum sms slang detected"
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return true, "unparseable url"
	}
	path := strings.ToLower(u.Path)
	full := strings.ToLower(rawURL)

	for _, p := range sitePathPatterns {
		if strings.Contains(path, p) {
			return true, "site-specific pattern: " + p
		}
	}

	for _, seg := range excludedSegments {
		if strings.Contains(path, seg) {
			return true, "excluded path segment: " + seg
		}
	}

	for _, ext := range excludedExtensions {
		if strings.HasSuffix(path, ext) || strings.Contains(full, ext+"?") {
			return true, "excluded extension: " + ext
		}
	}

	if u.RawQuery != "" {
		q := u.Query()
		for _, param := range excludedQueryParams {
			if _, ok := q[param]; ok {
				return true, "excluded query parameter: " + param
			}
		}
		for param := range q {
			if strings.HasPrefix(param, "utm_") {
				return true, "excluded query parameter: " + param
			}
		}
	}

	if depth := pathDepth(path); depth > maxPathDepth {
		return true, "path too deep"
	}

	if longNumericSegment.MatchString(path + "/") {
		return true, "long numeric id in path"
	}

	return false, ""
}

func pathDepth(path string) int {
	depth := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}
