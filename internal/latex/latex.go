// Package latex converts LaTeX-flavoured question text into plain
// unicode so retrieval and generation operate on readable input.
package latex

import (
	"regexp"
	"strings"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// structural rules run first so command arguments survive intact.
var structural = []rule{
	{regexp.MustCompile(`\\frac\{([^{}]*)\}\{([^{}]*)\}`), `($1)/($2)`},
	{regexp.MustCompile(`\\sqrt\{([^{}]*)\}`), `√($1)`},
	{regexp.MustCompile(`\\text\{([^{}]*)\}`), `$1`},
	{regexp.MustCompile(`\\mathrm\{([^{}]*)\}`), `$1`},
	{regexp.MustCompile(`\^\{([^{}]*)\}`), `^($1)`},
	{regexp.MustCompile(`_\{([^{}]*)\}`), `_($1)`},
	{regexp.MustCompile(`\\dot\{([^{}]*)\}`), `$1'`},
	{regexp.MustCompile(`\\ddot\{([^{}]*)\}`), `$1''`},
	{regexp.MustCompile(`\\vec\{([^{}]*)\}`), `$1`},
}

// commands maps bare LaTeX commands onto unicode.
var commands = map[string]string{
	`\alpha`: "α", `\beta`: "β", `\gamma`: "γ", `\delta`: "δ",
	`\epsilon`: "ε", `\varepsilon`: "ε", `\zeta`: "ζ", `\eta`: "η",
	`\theta`: "θ", `\iota`: "ι", `\kappa`: "κ", `\lambda`: "λ",
	`\mu`: "μ", `\nu`: "ν", `\xi`: "ξ", `\pi`: "π", `\rho`: "ρ",
	`\sigma`: "σ", `\tau`: "τ", `\upsilon`: "υ", `\phi`: "φ",
	`\varphi`: "φ", `\chi`: "χ", `\psi`: "ψ", `\omega`: "ω",
	`\Gamma`: "Γ", `\Delta`: "Δ", `\Theta`: "Θ", `\Lambda`: "Λ",
	`\Xi`: "Ξ", `\Pi`: "Π", `\Sigma`: "Σ", `\Phi`: "Φ",
	`\Psi`: "Ψ", `\Omega`: "Ω",
	`\times`: "×", `\div`: "÷", `\pm`: "±", `\cdot`: "·",
	`\infty`: "∞", `\approx`: "≈", `\neq`: "≠", `\equiv`: "≡",
	`\leq`: "≤", `\geq`: "≥", `\le`: "≤", `\ge`: "≥",
	`\to`: "→", `\rightarrow`: "→", `\Rightarrow`: "⇒",
	`\partial`: "∂", `\nabla`: "∇", `\int`: "∫", `\oint`: "∮",
	`\sum`: "Σ", `\prod`: "Π", `\propto`: "∝", `\degree`: "°",
	`\circ`: "°", `\hbar`: "ℏ",
}

var (
	commandPattern = regexp.MustCompile(`\\[a-zA-Z]+`)
	delimiters     = regexp.MustCompile(`\$\$|\$|\\\(|\\\)|\\\[|\\\]`)
	sizing         = regexp.MustCompile(`\\left|\\right|\\big|\\Big`)
	whitespace     = regexp.MustCompile(`[ \t]+`)
)

// Converter rewrites LaTeX markup into plain text. The zero value is
// ready to use.
type Converter struct{}

// New creates a Converter.
func New() *Converter {
	return &Converter{}
}

// Format converts question into plain text. Unknown commands are
// stripped rather than left as backslash noise.
func (c *Converter) Format(question string) string {
	out := question

	// Repeat structural passes so nested fractions resolve
	// innermost-first.
	for i := 0; i < 3; i++ {
		prev := out
		for _, r := range structural {
			out = r.re.ReplaceAllString(out, r.repl)
		}
		if out == prev {
			break
		}
	}

	out = sizing.ReplaceAllString(out, "")
	out = delimiters.ReplaceAllString(out, "")

	out = commandPattern.ReplaceAllStringFunc(out, func(cmd string) string {
		if sym, ok := commands[cmd]; ok {
			return sym
		}
		return ""
	})

	out = strings.NewReplacer("{", "", "}", "").Replace(out)
	out = whitespace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
