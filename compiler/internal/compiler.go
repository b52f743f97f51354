package internal

// Compile translates CPL source to quad code. Every call works on its own tokenizer, symbol
// table and error list.
//
// On failure the error is a *CompileError: lexical and type errors are all collected before
// giving up, while a syntax error or an undeclared identifier stops the compilation at once.
func Compile(source string) (string, error) {
	lexicalErrs, semanticErrs := &ErrorList{}, &ErrorList{}
	parser := NewParser(NewTokenizer(source, lexicalErrs.Record))
	program, err := parser.ParseProgram()
	if err != nil {
		return "", &CompileError{Records: lexicalErrs.Drain(), Fatal: err}
	}
	translator := NewTranslator(NewSymbolTable(), semanticErrs)
	code, err := translator.TranslateProgram(program)
	if err != nil {
		return "", &CompileError{Records: mergeRecords(lexicalErrs.Drain(), semanticErrs.Drain()), Fatal: err}
	}
	if lexicalErrs.HasErrors() || semanticErrs.HasErrors() {
		return "", &CompileError{Records: mergeRecords(lexicalErrs.Drain(), semanticErrs.Drain())}
	}
	return code, nil
}

// TokenStream returns every token of source with the lexical errors found on the way.
func TokenStream(source string) ([]*Token, []ErrorRecord) {
	errs := &ErrorList{}
	tokens := Tokenize(source, errs.Record)
	return tokens, errs.Drain()
}
