package analyzer

import (
	"regexp"

	"github.com/FayezBast/jarvis/pkg/models"
)

// The three pattern tables are the whole grammar of the rule tier. They
// are built once at package load and never mutated, so concurrent
// analyzers can share them without coordination.
//
// Table order is load-bearing: the classifier returns the first intent
// with any matching pattern, so more specific intents must appear before
// the broad ones (windows_automation and web_browse before
// system_control's bare "open", weather before knowledge).

type intentEntry struct {
	name     string
	patterns []*regexp.Regexp
}

type actionRule struct {
	pattern *regexp.Regexp
	action  string
}

type paramRule struct {
	name    string
	pattern *regexp.Regexp
}

var intentPatterns = buildIntentPatterns()

func buildIntentPatterns() []intentEntry {
	return []intentEntry{
		{models.IntentFileCreation, compileAll(
			`\b(create|make|generate|write)\b.*\b(file|document|doc|spreadsheet|report|script|note)\b`,
			`\b(create|make|generate|write)\s+(?:a|an|the\s+)?\s*(word|excel|pdf|text|python|json|html|markdown|csv)\b`,
			`\bnew\s+(word|excel|text|python|json|html|markdown|csv)\b`,
		)},
		{models.IntentFileManagement, compileAll(
			`\blist\s+(?:the\s+)?(files|folders?|director(?:y|ies))\b`,
			`\b(read|delete|remove|copy|move|rename)\b.*\bfile\b`,
			`\bfiles\s+in\b`,
			`\bshow\s+me\s+the\s+contents?\s+of\b`,
		)},
		{models.IntentWindowsAutomation, compileAll(
			`\bclick\b.*\b(?:coordinates?|position|at)\b`,
			`\bsend\s+keys?\b`,
			`\b(?:list|show)\s+(?:open\s+)?windows\b`,
			`\bmove\s+(?:the\s+)?mouse\b`,
		)},
		{models.IntentPowershellTask, compileAll(
			`\bpowershell\b`,
			`\brun\s+(?:a\s+|the\s+)?script\b`,
			`\bexecute\b.*\b(?:command|script)\b`,
			`\b(?:cpu|memory|disk)\s+(?:info|information|usage)\b`,
		)},
		{models.IntentWebBrowse, compileAll(
			`\bsearch\s+(?:for|the\s+web)\b`,
			`\bgoogle\b`,
			`\blook\s+up\b`,
			`\bbrowse\b`,
			`\bopen\s+(?:the\s+)?website\b`,
		)},
		{models.IntentSystemControl, compileAll(
			`\b(open|launch|start)\s+\S+`,
			`\b(?:running\s+)?processes\b`,
			`\bkill\s+\S+`,
			`\b(?:windows\s+)?services\b`,
			`\btake\s+a\s+screenshot\b`,
			`\b(?:shutdown|restart|lock)\b.*\b(?:computer|pc|system)\b`,
		)},
		{models.IntentClipboard, compileAll(
			`\bclipboard\b`,
			`\bpaste\b`,
		)},
		{models.IntentWeatherInquiry, compileAll(
			`\bweather\b`,
			`\btemperature\b`,
			`\bforecast\b`,
		)},
		{models.IntentMemoryQuery, compileAll(
			`\bremember\b`,
			`\bwhat\s+do\s+you\s+know\s+about\s+me\b`,
			`\bwhat\s+did\s+we\s+(?:discuss|talk\s+about)\b`,
			`\brecall\b`,
			`\b(?:clear|forget)\s+(?:your\s+|my\s+)?memory\b`,
		)},
		{models.IntentKnowledgeInquiry, compileAll(
			`\btell\s+me\s+about\b`,
			`\bwho\s+is\b`,
			`\bwhat\s+is\s+(?:a|an|the)?\b`,
			`\bexplain\b`,
			`\bdefine\b`,
		)},
		{models.IntentHelp, compileAll(
			`\bhelp\b`,
			`\bwhat\s+can\s+you\s+do\b`,
			`\blist\s+(?:your\s+)?commands\b`,
		)},
		{models.IntentConversation, compileAll(
			`\b(?:hello|hi|hey)\b`,
			`\bgood\s+(?:morning|afternoon|evening)\b`,
			`\bhow\s+are\s+you\b`,
			`\bthank(?:s|\s+you)\b`,
		)},
	}
}

// actionPatterns disambiguates within an already-chosen intent. First
// matching rule wins; intents without a table resolve to default_action.
var actionPatterns = map[string][]actionRule{
	models.IntentFileCreation: {
		{regexp.MustCompile(`\b(?:word|docx)\b`), "create_word"},
		{regexp.MustCompile(`\b(?:excel|spreadsheet|xlsx)\b`), "create_excel"},
		{regexp.MustCompile(`\bpdf\b`), "create_pdf"},
		{regexp.MustCompile(`\b(?:python|code|script|py)\b`), "create_code"},
		{regexp.MustCompile(`\bjson\b`), "create_json"},
		{regexp.MustCompile(`\b(?:html|web\s*page)\b`), "create_html"},
		{regexp.MustCompile(`\b(?:markdown|md)\b`), "create_markdown"},
		{regexp.MustCompile(`\bcsv\b`), "create_csv"},
		{regexp.MustCompile(`\b(?:text|txt|note)\b`), "create_text"},
	},
	models.IntentFileManagement: {
		{regexp.MustCompile(`\blist\b`), "list_files"},
		{regexp.MustCompile(`\b(?:read|contents?\s+of|show)\b`), "read_file"},
		{regexp.MustCompile(`\b(?:delete|remove)\b`), "delete_file"},
		{regexp.MustCompile(`\bcopy\b`), "copy_file"},
	},
	models.IntentSystemControl: {
		{regexp.MustCompile(`\b(?:open|launch|start)\b`), "open_application"},
		{regexp.MustCompile(`\bprocesses\b`), "get_processes"},
		{regexp.MustCompile(`\bkill\b`), "kill_process"},
		{regexp.MustCompile(`\bservices\b`), "get_services"},
		{regexp.MustCompile(`\bscreenshot\b`), "take_screenshot"},
	},
	models.IntentPowershellTask: {
		{regexp.MustCompile(`\bscript\s+(?:file|at|from)\b`), "run_script"},
		{regexp.MustCompile(`\b(?:system|cpu|memory|disk)\s+info`), "get_system_info"},
		{regexp.MustCompile(`\b(?:cpu|memory|disk)\s+usage\b`), "get_system_info"},
		{regexp.MustCompile(`\bpowershell\b`), "run_powershell"},
	},
	models.IntentWebBrowse: {
		{regexp.MustCompile(`\bopen\s+(?:the\s+)?website\b`), "open_website"},
		{regexp.MustCompile(`\b(?:search|google|look\s+up|browse)\b`), "web_search"},
	},
	models.IntentWeatherInquiry: {
		{regexp.MustCompile(`\b(?:weather|temperature|forecast)\b`), "get_weather"},
	},
	models.IntentKnowledgeInquiry: {
		{regexp.MustCompile(`.`), "get_summary"},
	},
	models.IntentMemoryQuery: {
		{regexp.MustCompile(`\bwhat\s+do\s+you\s+know\s+about\s+me\b`), "recall_facts"},
		{regexp.MustCompile(`\b(?:discuss|talk|conversation)\b`), "recall_conversation"},
		{regexp.MustCompile(`\b(?:clear|forget)\b`), "clear_memory"},
		{regexp.MustCompile(`\bremember\s+that\b`), "store_fact"},
		{regexp.MustCompile(`\b(?:search|find|recall)\b`), "search_memory"},
	},
	models.IntentClipboard: {
		{regexp.MustCompile(`\b(?:read|show|what(?:'s|\s+is)\s+(?:in|on))\b`), "read_clipboard"},
		{regexp.MustCompile(`\b(?:copy|write|put)\b`), "write_clipboard"},
		{regexp.MustCompile(`\bpaste\b`), "read_clipboard"},
	},
	models.IntentWindowsAutomation: {
		{regexp.MustCompile(`\bclick\b`), "click_coordinates"},
		{regexp.MustCompile(`\bkeys?\b`), "send_keys"},
		{regexp.MustCompile(`\bwindows\b`), "get_window_list"},
	},
	models.IntentHelp: {
		{regexp.MustCompile(`.`), "show_help"},
	},
}

// parameterPatterns is the flat generic table. Every rule is tried on
// every utterance; coordinates is special-cased into integer x/y.
var parameterPatterns = []paramRule{
	{"coordinates", regexp.MustCompile(`(?:coordinates?|position)\s+(\d+)\s*,\s*(\d+)`)},
	{"city", regexp.MustCompile(`(?:weather|temperature|forecast)[\w\s]*?\b(?:in|for|at)\s+([a-z][a-z\s-]*?)\s*\??$`)},
	{"application", regexp.MustCompile(`\b(?:launch|start)\s+(?:the\s+)?([a-z0-9][\w .+-]*?)\s*$`)},
	{"search_query", regexp.MustCompile(`\b(?:search\s+(?:for\s+)?|google\s+|look\s+up\s+)(.+?)\s*$`)},
	{"url", regexp.MustCompile(`\bwebsite\s+(\S+)`)},
	{"keys", regexp.MustCompile(`\bsend\s+keys?\s+(.+?)\s*$`)},
	{"directory", regexp.MustCompile(`\b(?:in|from)\s+(?:the\s+)?([\w./~-]+)\s+(?:folder|directory)`)},
	{"file_name", regexp.MustCompile(`\bfile\s+(?:named\s+|called\s+)?([\w-]+\.[a-z0-9]{1,5})\b`)},
	{"content", regexp.MustCompile(`\bwith\s+content\s+['"]?(.+?)['"]?\s*$`)},
	{"topic", regexp.MustCompile(`\b(?:about|regarding)\s+(.+?)\s*$`)},
	{"process_name", regexp.MustCompile(`\bkill\s+(?:the\s+)?([\w.-]+)\s*(?:process)?\s*$`)},
	{"script_path", regexp.MustCompile(`\bscript\s+(?:file\s+)?(?:at\s+|from\s+)?([\w./\\:-]+\.ps1)\b`)},
}

// fileTypeKeywords maps format keywords found in an utterance to the
// extension the file writers expect. Scan order matters: the first
// keyword present wins.
var fileTypeKeywords = []struct {
	keyword string
	ext     string
}{
	{"word", "docx"},
	{"docx", "docx"},
	{"excel", "xlsx"},
	{"spreadsheet", "xlsx"},
	{"xlsx", "xlsx"},
	{"pdf", "pdf"},
	{"python", "py"},
	{"script", "py"},
	{"json", "json"},
	{"html", "html"},
	{"markdown", "md"},
	{"csv", "csv"},
	{"text", "txt"},
	{"note", "txt"},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}
