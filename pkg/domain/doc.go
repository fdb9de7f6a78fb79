/*
Package domain contains the core domain models for the Masonry engine.

It defines the persisted Block envelope, the wizard flow definitions
(Steps, Branches, ResultRules, ScoringSpec) and the per-session runtime
state. This package is kept pure and free of I/O and persistence concerns,
following Hexagonal Architecture principles.

# Key Entities

  - Block: The persisted envelope of one unit of page content (type tag + config + content).
  - Page / Site: Routing and site-wide attributes around ordered block lists.
  - WizardSpec / Step: The declarative multi-step flow embedded in a wizard block.
  - WizardState: The runtime snapshot of a visitor session (Answer Map, History).
  - RenderContext: The read-only parameter bag handed to every renderer.
*/
package domain
