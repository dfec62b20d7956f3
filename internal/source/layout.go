package source

import (
	"os"
	"path/filepath"

	"github.com/agentx-labs/aisync/internal/branding"
)

// Convention subtree names under a root directory.
const (
	RulesDir    = "rules"
	CommandsDir = "commands"
	AssetsDir   = "assets"
	SkillsDir   = "skills"
	AgentsDir   = "agents"
	HooksDir    = "hooks"
	HooksFile   = "hooks.json"
	SkillFile   = "SKILL.md"

	RuleExt    = ".mdc"
	CommandExt = ".md"
	AgentExt   = ".md"
)

// recognizedEntries are the subtrees whose presence makes a root non-empty.
var recognizedEntries = []string{RulesDir, CommandsDir, AssetsDir, SkillsDir, AgentsDir, HooksFile}

// HasRecognizedEntries reports whether root contains any of the recognized
// convention subtrees.
func HasRecognizedEntries(root string) bool {
	for _, name := range recognizedEntries {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			return true
		}
	}
	return false
}

// HookCommandPrefix is the prefix of every hook command the tool installs,
// relative to the hook declaration file (e.g., "./hooks/aisync/").
func HookCommandPrefix() string {
	return "./" + HooksDir + "/" + branding.ManagedDir() + "/"
}

// HookEvents is the fixed set of lifecycle events a hook can bind to.
var HookEvents = []string{
	"beforeSubmitPrompt",
	"beforeShellExecution",
	"afterShellExecution",
	"beforeMCPExecution",
	"afterMCPExecution",
	"beforeReadFile",
	"afterFileEdit",
	"afterAgentResponse",
	"afterAgentThought",
	"beforeTabFileRead",
	"afterTabFileEdit",
	"stop",
}

// IsHookEvent reports whether name is a known lifecycle event.
func IsHookEvent(name string) bool {
	for _, e := range HookEvents {
		if e == name {
			return true
		}
	}
	return false
}
