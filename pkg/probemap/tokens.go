package probemap

// TokenID identifies a single token in the model vocabulary.
type TokenID uint32

// TokenList is an ordered sequence of token ids treated as one n-gram key.
// Key identity is positional: two lists denote the same key only when they
// have the same length and the same token at every index.
type TokenList []TokenID
