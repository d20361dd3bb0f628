package tagcore

const Version = "0.1.0"
