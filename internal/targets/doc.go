// Package targets describes the on-disk conventions of every supported
// consumer tool: where each category installs below the tool's root
// directory, which categories the tool understands, and which shared files
// (hook declarations, server list, rule index) it reads.
package targets
