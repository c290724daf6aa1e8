// Package provider defines the base interface and registry for pluggable
// diarkit backends.
//
// Two provider families build on this package: speech-to-text backends
// (stt.Provider) and source-separation backends (separation.Provider). Both
// embed the base Provider interface and register factories with a typed
// Registry for runtime-selectable backends:
//
//	reg := provider.NewRegistry[stt.Provider]()
//	reg.Register("voicekit", voicekit.Factory())
//	p, err := reg.Resolve("voicekit", cfg)
package provider
