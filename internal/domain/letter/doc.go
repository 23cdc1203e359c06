// Package letter models official village correspondence: letter types, the per-tenant
// settings that drive numbering and validation, the letter aggregate and its workflow,
// and the records hanging off a letter (recipients, attachments, tracking, AI validation,
// signatures, rendered artifacts).
//
// Three mechanisms carry the integrity guarantees:
//
//   - numbers come from a per-(tenant, year) counter that is incremented in a single
//     atomic statement (see SequenceRepository);
//   - the signature hash is a SHA-256 over the RFC 8785 canonical form of the letter's
//     immutable identity and content (see ContentDigest);
//   - rendered PDF and QR artifacts are cached under a key derived from that digest,
//     so any content change produces a new key (see ArtifactKey).
package letter
