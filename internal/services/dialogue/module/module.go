// Package module wires the dialogue engine for the console agent and the API using modkit
package module

import (
	"math/rand/v2"

	"sentibot/internal/core/catalog"
	"sentibot/internal/core/langhint"
	"sentibot/internal/core/replypack"
	"sentibot/internal/core/sentiment"
	modkit "sentibot/internal/modkit"
	"sentibot/internal/modkit/httpkit"
	str "sentibot/internal/platform/strings"
	dhttp "sentibot/internal/services/dialogue/http"
	"sentibot/internal/services/dialogue/domain"
	dsvc "sentibot/internal/services/dialogue/service"
	idom "sentibot/internal/services/interactions/domain"
)

// Module carries the engine plus the analyze/reply routes
type Module struct {
	built modkit.Built
	eng   *dsvc.Engine
}

// Ports declares the injected interaction log the engine persists to
type Ports struct {
	Turns idom.LoggerPort
}

// Exports are the ports this module offers
type Exports struct {
	Engine   domain.EnginePort
	Analyzer domain.AnalyzerPort
}

// New constructs the dialogue module; it requires the Turns port from the interactions module
// A pack or lexicon that fails to load is a Config error
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("dialogue"), modkit.WithPrefix("/dialogue")}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Turns == nil {
		panic("dialogue module requires the Turns port (from services/interactions)")
	}

	o := FromConfig(deps.Cfg)
	log := deps.Named(b.Name)

	pack, err := loadPack(o.PackPath)
	if err != nil {
		return nil, err
	}
	scorer, err := loadScorer(o.LexiconPath)
	if err != nil {
		return nil, err
	}

	var src rand.Source
	if o.Seed != 0 {
		src = rand.NewPCG(uint64(o.Seed), uint64(o.Seed))
	}
	r := pack.Replies
	guard := langhint.NewGuard(langhint.NewIdentifier(), o.TargetLang, pack.Messages.NonEnglish, &log)
	eng := dsvc.New(dsvc.Components{
		Pack:       pack,
		Classifier: sentiment.NewClassifier(scorer, &log),
		Guard:      guard,
		Catalog:    catalog.New(r.Positive, r.Negative, r.Neutral, src),
		Turns:      injected.Turns,
		Log:        &log,
		BotName:    o.BotName,
	})
	log.Debug().Str("bot", eng.BotName()).Str("target_lang", guard.Target()).Bool("seeded", src != nil).Msg("dialogue engine ready")

	return &Module{built: b, eng: eng}, nil
}

func loadPack(path string) (*replypack.Pack, error) {
	if path == "" {
		return replypack.Load()
	}
	return replypack.LoadFile(path)
}

func loadScorer(path string) (sentiment.Scorer, error) {
	var (
		lx  *sentiment.Lexicon
		err error
	)
	if path == "" {
		lx, err = sentiment.LoadLexicon()
	} else {
		lx, err = sentiment.LoadLexiconFile(path)
	}
	if err != nil {
		return nil, err
	}
	return sentiment.NewLexiconScorer(lx), nil
}

// Ports exports the engine as both EnginePort and AnalyzerPort
func (m *Module) Ports() any { return Exports{Engine: m.eng, Analyzer: m.eng} }

// MountRoutes implements module.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) { dhttp.Register(sub, m.eng) })
}

func (m *Module) Name() string { return str.MustString(m.built.Name, "dialogue module name") }

func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }
