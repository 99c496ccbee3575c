package extract

// geminiAdapter extracts from gemini.google.com.
var geminiAdapter = &platformAdapter{
	name:  "gemini",
	hosts: []string{"gemini.google.com"},
	modelSelectors: []string{
		`[data-test-id="bard-mode-menu-button"]`,
		`.current-mode-title`,
		`bard-mode-switcher button`,
	},
	titleSelectors: []string{
		`[data-test-id="conversation-title"]`,
		`.conversation-title`,
	},
	exchangePairs: []exchangePair{
		{
			user:      `user-query .query-text`,
			assistant: `model-response message-content`,
		},
		{
			user:      `.user-query-container`,
			assistant: `.model-response-text`,
		},
	},
	shareMarker: "/share/",
}
