package constant

// AsciiArtLogo is the application's ASCII art banner.
const AsciiArtLogo = `
  ___ _   _ _ __ / _|_ __ | | __ _ _   _
 / __| | | | '__| |_| '_ \| |/ _' | | | |
 \__ \ |_| | |  |  _| |_) | | (_| | |_| |
 |___/\__,_|_|  |_| | .__/|_|\__,_|\__, |
                    |_|            |___/`
