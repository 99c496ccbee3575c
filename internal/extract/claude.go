package extract

// claudeAdapter extracts from claude.ai.
var claudeAdapter = &platformAdapter{
	name:  "claude",
	hosts: []string{"claude.ai"},
	modelSelectors: []string{
		`[data-testid="model-selector-dropdown"]`,
		`button[aria-haspopup="menu"] .whitespace-nowrap`,
	},
	titleSelectors: []string{
		`[data-testid="chat-title"]`,
		`header .truncate`,
	},
	exchangePairs: []exchangePair{
		{
			user:      `[data-testid="user-message"]`,
			assistant: `[data-testid="assistant-message"]`,
		},
		{
			user:      `.font-user-message`,
			assistant: `.font-claude-message`,
		},
	},
	shareMarker: "/share/",
}
