// ═══════════════════════════════════════════════════════════════════════════════
// STOPWORD RESOLUTION
// ═══════════════════════════════════════════════════════════════════════════════
// The effective stopword set of a text analyzer is computed once, when its
// configuration is resolved into the cache, from up to three sources:
//
//  1. The explicit list in the options. Always included when non-empty.
//  2. A custom path, when the options carry one. The empty path means "look
//     under the current working directory". Runs in addition to the explicit
//     list: both can contribute.
//  3. The default per-language directory, but only when neither an explicit
//     list nor a path was given. The root comes from the
//     SIFT_TEXT_STOPWORD_PATH environment variable, else the working
//     directory.
//
// An explicitly provided list — even an empty one — with no path suppresses
// all file loading. That is how a caller disables stopwords entirely.
//
// FILE FORMAT:
// ------------
// Every regular file under <root>/<language-code>/ contributes one word per
// line: the prefix before the first whitespace. Lines that begin with
// whitespace are skipped, which doubles as the comment syntax:
//
//	the
//	and     any trailing text is ignored
//	  this whole line is skipped
//
// Filesystem errors are fatal to resolution (no analyzer instance results),
// never to the process.
// ═══════════════════════════════════════════════════════════════════════════════

package sift

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/golang/glog"
	"golang.org/x/text/language"
)

// StopwordPathEnvVar overrides the root directory for default stopword
// loading. Within the root, stopwords for a locale live under its base
// language code, e.g. <root>/en/ for "en_US.UTF-8".
const StopwordPathEnvVar = "SIFT_TEXT_STOPWORD_PATH"

// resolveStopwords builds the effective stopword set for opts, whose locale
// has already been resolved to tag. See the decision table above.
func resolveStopwords(opts TextOptions, tag language.Tag) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(opts.Stopwords))
	for _, w := range opts.Stopwords {
		set[w] = struct{}{}
	}

	switch {
	case opts.StopwordsPath != nil:
		// A custom path never consults the environment override.
		if err := loadStopwords(set, tag, *opts.StopwordsPath, false); err != nil {
			return nil, err
		}
	case !opts.StopwordsSet && len(set) == 0:
		if err := loadStopwords(set, tag, "", true); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// loadStopwords merges the words found under <root>/<language>/ into dst.
// A relative (or empty) root is made absolute against the working directory.
func loadStopwords(dst map[string]struct{}, tag language.Tag, root string, useEnv bool) error {
	if useEnv {
		if env, ok := os.LookupEnv(StopwordPathEnvVar); ok {
			root = env
		}
	}

	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("%w: resolving stopword path: %v", ErrResource, err)
		}
		root = filepath.Join(cwd, root)
	}

	base, _ := tag.Base()
	dir := filepath.Join(root, base.String())

	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: reading stopword directory %s: %v", ErrResource, dir, err)
	}

	for _, f := range files {
		if !f.Type().IsRegular() {
			glog.V(2).Infof("skipping non-regular stopword entry %s", f.Name())
			continue
		}

		path := filepath.Join(dir, f.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: reading stopword file %s: %v", ErrResource, path, err)
		}

		for _, line := range strings.Split(string(data), "\n") {
			i := strings.IndexFunc(line, unicode.IsSpace)
			switch {
			case i == 0:
				// leading whitespace: not a stopword line
			case i < 0:
				if line != "" {
					dst[line] = struct{}{}
				}
			default:
				dst[line[:i]] = struct{}{}
			}
		}
	}

	return nil
}

// EnglishStopwords is the classic English stopword list, for callers who want
// a self-contained default without a stopword directory on disk:
//
//	opts := sift.TextOptions{
//	    Locale:       "en",
//	    CaseConvert:  sift.CaseLower,
//	    Stopwords:    sift.EnglishStopwords,
//	    StopwordsSet: true,
//	}
//
// It includes articles, prepositions, conjunctions, pronouns, auxiliary verbs
// and spelled-out numbers.
var EnglishStopwords = []string{
	"a", "about", "above", "across", "after", "afterwards", "again", "against",
	"all", "almost", "alone", "along", "already", "also", "although", "always",
	"am", "among", "amongst", "amoungst", "amount", "an", "and", "another",
	"any", "anyhow", "anyone", "anything", "anyway", "anywhere", "are",
	"around", "as", "at", "back", "be", "became", "because", "become",
	"becomes", "becoming", "been", "before", "beforehand", "behind", "being",
	"below", "beside", "besides", "between", "beyond", "bill", "both",
	"bottom", "but", "by", "call", "can", "cannot", "cant", "co", "con",
	"could", "couldnt", "cry", "de", "describe", "detail", "do", "done",
	"down", "due", "during", "each", "eg", "eight", "either", "eleven",
	"else", "elsewhere", "empty", "enough", "etc", "even", "ever", "every",
	"everyone", "everything", "everywhere", "except", "few", "fifteen",
	"fify", "fill", "find", "fire", "first", "five", "for", "former",
	"formerly", "forty", "found", "four", "from", "front", "full", "further",
	"get", "give", "go", "had", "has", "hasnt", "have", "he", "hence", "her",
	"here", "hereafter", "hereby", "herein", "hereupon", "hers", "herself",
	"him", "himself", "his", "how", "however", "hundred", "ie", "if", "in",
	"inc", "indeed", "interest", "into", "is", "it", "its", "itself", "keep",
	"last", "latter", "latterly", "least", "less", "ltd", "made", "many",
	"may", "me", "meanwhile", "might", "mill", "mine", "more", "moreover",
	"most", "mostly", "move", "much", "must", "my", "myself", "name",
	"namely", "neither", "never", "nevertheless", "next", "nine", "no",
	"nobody", "none", "noone", "nor", "not", "nothing", "now", "nowhere",
	"of", "off", "often", "on", "once", "one", "only", "onto", "or", "other",
	"others", "otherwise", "our", "ours", "ourselves", "out", "over", "own",
	"part", "per", "perhaps", "please", "put", "rather", "re", "same", "see",
	"seem", "seemed", "seeming", "seems", "serious", "several", "she",
	"should", "show", "side", "since", "sincere", "six", "sixty", "so",
	"some", "somehow", "someone", "something", "sometime", "sometimes",
	"somewhere", "still", "such", "system", "take", "ten", "than", "that",
	"the", "their", "them", "themselves", "then", "thence", "there",
	"thereafter", "thereby", "therefore", "therein", "thereupon", "these",
	"they", "thickv", "thin", "third", "this", "those", "though", "three",
	"through", "throughout", "thru", "thus", "to", "together", "too", "top",
	"toward", "towards", "twelve", "twenty", "two", "un", "under", "until",
	"up", "upon", "us", "very", "via", "was", "we", "well", "were", "what",
	"whatever", "when", "whence", "whenever", "where", "whereafter",
	"whereas", "whereby", "wherein", "whereupon", "wherever", "whether",
	"which", "while", "whither", "who", "whoever", "whole", "whom", "whose",
	"why", "will", "with", "within", "without", "would", "yet", "you",
	"your", "yours", "yourself", "yourselves",
}
