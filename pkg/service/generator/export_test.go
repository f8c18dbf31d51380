package generator

var BuildPrompt = buildPrompt
