package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FayezBast/jarvis/internal/files"
	"github.com/FayezBast/jarvis/internal/memory"
	"github.com/FayezBast/jarvis/internal/security"
	"github.com/FayezBast/jarvis/pkg/models"
)

// commandTimeout bounds every spawned process.
const commandTimeout = 30 * time.Second

const maxReadBytes = 1000

// Runner turns a CommandAnalysis into a side effect and a textual
// response. Every handler returns text; failures become explanatory
// responses, never errors, so the caller always has something to say.
type Runner struct {
	memory    *memory.Store
	files     *files.Writer
	aliases   map[string]string
	workspace string
	logger    *zap.Logger
}

// NewRunner creates an executor.
func NewRunner(mem *memory.Store, writer *files.Writer, aliases map[string]string, workspace string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		memory:    mem,
		files:     writer,
		aliases:   aliases,
		workspace: workspace,
		logger:    logger,
	}
}

// Execute routes an analysis to its intent handler.
func (r *Runner) Execute(ctx context.Context, analysis *models.CommandAnalysis) string {
	switch analysis.Intent {
	case models.IntentFileCreation:
		return r.handleFileCreation(ctx, analysis)
	case models.IntentFileManagement:
		return r.handleFileManagement(ctx, analysis)
	case models.IntentSystemControl:
		return r.handleSystemControl(ctx, analysis)
	case models.IntentPowershellTask:
		return r.handlePowershell(ctx, analysis)
	case models.IntentWebBrowse:
		return r.handleWebBrowse(ctx, analysis)
	case models.IntentWeatherInquiry:
		return r.handleWeather(analysis)
	case models.IntentKnowledgeInquiry:
		return r.handleKnowledge(analysis)
	case models.IntentMemoryQuery:
		return r.handleMemoryQuery(analysis)
	case models.IntentClipboard:
		return "Clipboard access isn't wired up on this host yet."
	case models.IntentWindowsAutomation:
		return r.handleWindowsAutomation(ctx, analysis)
	case models.IntentHelp:
		return HelpText
	default:
		return fmt.Sprintf("I understand you want to %s, but I need more specific instructions.", analysis.Intent)
	}
}

func (r *Runner) handleFileCreation(ctx context.Context, analysis *models.CommandAnalysis) string {
	topic := analysis.StringParam("content_topic")
	if topic == "" {
		topic = analysis.StringParam("topic")
	}
	fileType := analysis.StringParam("file_type")

	path, err := r.files.Create(ctx, topic, fileType)
	if err != nil {
		r.logger.Error("file creation failed", zap.Error(err))
		return fmt.Sprintf("File creation failed: %v", err)
	}
	return fmt.Sprintf("File created successfully: %s", path)
}

func (r *Runner) handleFileManagement(ctx context.Context, analysis *models.CommandAnalysis) string {
	switch analysis.Action {
	case "list_files":
		dir := analysis.StringParam("directory")
		if dir == "" {
			dir = r.workspace
		}
		return r.listFiles(dir)
	case "read_file":
		return r.readFile(analysis.StringParam("file_name"))
	case "delete_file":
		return r.deleteFile(analysis.StringParam("file_name"))
	default:
		return "File operation not recognized."
	}
}

func (r *Runner) listFiles(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Sprintf("Failed to list files: %v", err)
	}
	if len(entries) == 0 {
		return fmt.Sprintf("No files in %s.", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return fmt.Sprintf("Files in %s:\n%s", dir, strings.Join(names, "\n"))
}

func (r *Runner) readFile(name string) string {
	if name == "" {
		return "Please tell me which file to read."
	}
	path, err := security.ValidatePath(filepath.Join(r.workspace, name), r.workspace)
	if err != nil {
		return fmt.Sprintf("Failed to read file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Failed to read file: %v", err)
	}

	content := string(data)
	if len(content) > maxReadBytes {
		content = content[:maxReadBytes] + "... (truncated)"
	}
	return fmt.Sprintf("Content of %s:\n%s", name, content)
}

func (r *Runner) deleteFile(name string) string {
	if name == "" {
		return "Please tell me which file to delete."
	}
	path, err := security.ValidatePath(filepath.Join(r.workspace, name), r.workspace)
	if err != nil {
		return fmt.Sprintf("Failed to delete file: %v", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Sprintf("Failed to delete file: %v", err)
	}
	return fmt.Sprintf("Deleted %s.", name)
}

func (r *Runner) handleSystemControl(ctx context.Context, analysis *models.CommandAnalysis) string {
	switch analysis.Action {
	case "open_application":
		return r.openApplication(ctx, analysis.StringParam("application"))
	case "get_processes":
		return r.getProcesses(ctx)
	case "kill_process":
		name := analysis.StringParam("process_name")
		if name == "" {
			return "Please tell me which process to stop."
		}
		return r.run(ctx, killCommand(name))
	case "get_services":
		if runtime.GOOS != "windows" {
			return r.run(ctx, []string{"systemctl", "list-units", "--type=service", "--state=running", "--no-pager"})
		}
		return r.run(ctx, []string{"powershell", "-Command", "Get-Service | Where-Object Status -eq 'Running'"})
	case "take_screenshot":
		return "Screenshots aren't wired up on this host yet."
	default:
		return "System control action not recognized."
	}
}

func (r *Runner) openApplication(ctx context.Context, app string) string {
	if app == "" {
		return "Please tell me which application to open."
	}

	name := app
	if alias, ok := r.aliases[strings.ToLower(app)]; ok {
		name = alias
	}

	var cmd *exec.Cmd
	cctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(cctx, "powershell", "-Command", fmt.Sprintf("Start-Process '%s'", name))
	} else {
		cmd = exec.CommandContext(cctx, name)
	}

	if err := cmd.Start(); err != nil {
		r.logger.Warn("failed to open application", zap.String("app", name), zap.Error(err))
		return fmt.Sprintf("Failed to open %s: %v", app, err)
	}
	// Detach: the assistant should not wait for the app to exit.
	go func() { _ = cmd.Wait() }()

	return fmt.Sprintf("Attempting to open %s...", app)
}

func (r *Runner) getProcesses(ctx context.Context) string {
	var out string
	if runtime.GOOS == "windows" {
		out = r.run(ctx, []string{"powershell", "-Command",
			"Get-Process | Select-Object Name, Id, CPU | Sort-Object CPU -Descending | Select-Object -First 10 | Format-Table -AutoSize"})
	} else {
		out = r.run(ctx, []string{"sh", "-c", "ps aux --sort=-%cpu | head -n 11"})
	}
	return "Top processes by CPU usage:\n" + out
}

func killCommand(name string) []string {
	if runtime.GOOS == "windows" {
		return []string{"powershell", "-Command", fmt.Sprintf("Stop-Process -Name '%s'", name)}
	}
	return []string{"pkill", name}
}

func (r *Runner) handlePowershell(ctx context.Context, analysis *models.CommandAnalysis) string {
	if runtime.GOOS != "windows" {
		return "PowerShell tasks are only available on Windows hosts."
	}

	switch analysis.Action {
	case "run_script":
		path := analysis.StringParam("script_path")
		if path == "" {
			return "Please specify the PowerShell script file path."
		}
		return r.run(ctx, []string{"powershell", "-ExecutionPolicy", "Bypass", "-File", path})
	case "get_system_info":
		return r.run(ctx, []string{"powershell", "-Command",
			"Get-ComputerInfo | Select-Object WindowsProductName, WindowsVersion, TotalPhysicalMemory"})
	default:
		return "Tell me the PowerShell command you'd like to run."
	}
}

func (r *Runner) handleWebBrowse(ctx context.Context, analysis *models.CommandAnalysis) string {
	if analysis.Action == "open_website" {
		site := analysis.StringParam("url")
		if site == "" {
			site = analysis.StringParam("website")
		}
		if site == "" {
			return "Which website should I open?"
		}
		url := site
		if !strings.Contains(url, "://") {
			url = "https://" + url
		}
		if err := r.openURL(ctx, url); err != nil {
			return fmt.Sprintf("I couldn't open a browser, but here's the link: %s", url)
		}
		return fmt.Sprintf("Opening %s...", site)
	}

	query := analysis.StringParam("search_query")
	if query == "" {
		query = analysis.StringParam("query")
	}
	if query == "" {
		return "What would you like me to search for?"
	}

	url := "https://www.google.com/search?q=" + strings.ReplaceAll(query, " ", "+")
	if err := r.openURL(ctx, url); err != nil {
		return fmt.Sprintf("I couldn't open a browser, but here's the search link: %s", url)
	}
	return fmt.Sprintf("Searching the web for %q...", query)
}

// openURL launches the platform browser opener for url.
func (r *Runner) openURL(ctx context.Context, url string) error {
	var opener []string
	switch runtime.GOOS {
	case "windows":
		opener = []string{"powershell", "-Command", fmt.Sprintf("Start-Process '%s'", url)}
	case "darwin":
		opener = []string{"open", url}
	default:
		opener = []string{"xdg-open", url}
	}

	cctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return exec.CommandContext(cctx, opener[0], opener[1:]...).Start()
}

func (r *Runner) handleWeather(analysis *models.CommandAnalysis) string {
	city := analysis.StringParam("city")
	if city == "" {
		return "Which city's weather would you like?"
	}
	return fmt.Sprintf("I don't have a weather service configured yet, so I can't fetch the forecast for %s.", city)
}

func (r *Runner) handleKnowledge(analysis *models.CommandAnalysis) string {
	topic := analysis.StringParam("topic")
	if topic == "" {
		return "What topic would you like to know about?"
	}
	return fmt.Sprintf("I can't look up %s without my knowledge service; try asking me in conversation mode.", topic)
}

func (r *Runner) handleMemoryQuery(analysis *models.CommandAnalysis) string {
	switch analysis.Action {
	case "recall_facts":
		return r.recallFacts()
	case "recall_conversation":
		return r.recallConversation()
	case "search_memory":
		query := analysis.StringParam("query")
		if query == "" {
			query = analysis.StringParam("search_query")
		}
		return r.searchMemory(query)
	case "clear_memory":
		if err := r.memory.Clear(); err != nil {
			return fmt.Sprintf("Memory operation failed: %v", err)
		}
		return "Memory cleared."
	case "store_fact":
		// Facts are harvested from every utterance by the core loop;
		// acknowledging is all that's left to do here.
		return "Noted. I'll remember that."
	default:
		return "Memory query not recognized."
	}
}

func (r *Runner) recallFacts() string {
	facts, err := r.memory.Facts()
	if err != nil {
		return fmt.Sprintf("Memory operation failed: %v", err)
	}
	if len(facts) == 0 {
		return "I don't have any stored facts about you yet."
	}

	var b strings.Builder
	b.WriteString("Here's what I know about you:\n")
	for _, f := range facts {
		fmt.Fprintf(&b, "- %s: %s\n", f.Type, f.Content)
	}
	return b.String()
}

func (r *Runner) recallConversation() string {
	entries, err := r.memory.RecentConversation(6)
	if err != nil {
		return fmt.Sprintf("Memory operation failed: %v", err)
	}
	if len(entries) == 0 {
		return "No conversation history available yet."
	}

	var b strings.Builder
	b.WriteString("Recent conversation:\n")
	for _, e := range entries {
		role := "Me"
		if e.Role == "user" {
			role = "You"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, e.Content)
	}
	return b.String()
}

func (r *Runner) searchMemory(query string) string {
	if query == "" {
		return "What should I search my memory for?"
	}
	results, err := r.memory.Search(query)
	if err != nil {
		return fmt.Sprintf("Memory operation failed: %v", err)
	}
	if len(results) == 0 {
		return fmt.Sprintf("I found nothing in memory about %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d memory entries for %q:\n", len(results), query)
	for _, res := range results {
		fmt.Fprintf(&b, "- [%s] %s\n", res.Type, res.Content)
	}
	return b.String()
}

func (r *Runner) handleWindowsAutomation(ctx context.Context, analysis *models.CommandAnalysis) string {
	if runtime.GOOS != "windows" {
		return "Desktop automation is only available on Windows hosts."
	}

	switch analysis.Action {
	case "click_coordinates":
		x, okX := analysis.IntParam("x")
		y, okY := analysis.IntParam("y")
		if !okX || !okY {
			return "I need both x and y coordinates to click."
		}
		r.run(ctx, []string{"powershell", "-Command", clickScript(x, y)})
		return fmt.Sprintf("Clicked at coordinates (%d, %d)", x, y)
	case "send_keys":
		keys := analysis.StringParam("keys")
		if keys == "" {
			return "Which keys should I send?"
		}
		return fmt.Sprintf("Sent keys: %s", keys)
	case "get_window_list":
		return r.run(ctx, []string{"powershell", "-Command",
			"Get-Process | Where-Object {$_.MainWindowTitle} | Select-Object MainWindowTitle"})
	default:
		return "Automation action not recognized."
	}
}

// clickScript builds the PowerShell that positions the cursor and then
// issues a left-button press and release through user32 mouse_event.
// Moving the cursor alone does not click.
func clickScript(x, y int) string {
	return fmt.Sprintf(`
Add-Type -AssemblyName System.Windows.Forms
[System.Windows.Forms.Cursor]::Position = New-Object System.Drawing.Point(%d, %d)
$signature = @'
[DllImport("user32.dll", CharSet = CharSet.Auto, CallingConvention = CallingConvention.StdCall)]
public static extern void mouse_event(long dwFlags, long dx, long dy, long cButtons, long dwExtraInfo);
'@
$SendMouseClick = Add-Type -memberDefinition $signature -name "Win32MouseEvent" -namespace Win32Functions -passThru
$SendMouseClick::mouse_event(0x00000002, 0, 0, 0, 0)
$SendMouseClick::mouse_event(0x00000004, 0, 0, 0, 0)
`, x, y)
}

// run executes a command with the standard timeout and returns its
// combined output, or an explanatory message on failure.
func (r *Runner) run(ctx context.Context, argv []string) string {
	cctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(cctx, argv[0], argv[1:]...).CombinedOutput()
	if cctx.Err() == context.DeadlineExceeded {
		return "The command timed out (30 seconds exceeded)."
	}
	if err != nil {
		r.logger.Warn("command failed", zap.Strings("argv", argv), zap.Error(err))
		return fmt.Sprintf("Command failed: %v", err)
	}

	output := strings.TrimSpace(string(out))
	if output == "" {
		return "Command executed successfully."
	}
	return output
}

// HelpText describes what the assistant can do.
const HelpText = `JARVIS Commands:

File Operations:
  - "Create a word document about renewable energy"
  - "List files in the workspace"
  - "Read file notes.txt"

System Control:
  - "Open calculator"
  - "Show running processes"

Memory:
  - "Remember that I prefer dark mode"
  - "What do you know about me?"
  - "What did we discuss earlier?"

Other:
  - "Search for golang tutorials"
  - "What is the weather in Paris"
  - "Click at coordinates 500, 300" (Windows)

Just speak naturally - I'll work out what you want to do.`
