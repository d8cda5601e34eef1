package config

// DefaultVars holds the variables the rest of the default configuration
// depends on. They can be overridden from the config file or with
// MERKLE_ prefixed environment variables.
const DefaultVars = `
# PathRWData is the directory where the service stores its data
PathRWData = "/tmp/merkle-tree-service"
`

// DefaultValues is the default configuration
const DefaultValues = `
[Log]
Environment = "development" # "production" or "development"
Level = "info"
Outputs = ["stderr"]

[RPC]
Host = "0.0.0.0"
Port = 5576
ReadTimeout = "2s"
WriteTimeout = "2s"
MaxRequestsPerIPAndSecond = 500

[MerkleTree]
DBPath = "{{PathRWData}}/merkletree.sqlite"
`
